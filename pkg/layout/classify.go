package layout

import (
	"strings"

	"boxtree/pkg/css"
	"boxtree/pkg/html"
)

// StyleResolver maps a document node to its computed style.
// *css.Cascade implements it.
type StyleResolver interface {
	Resolve(node *html.Node) *css.Style
}

// Seed is what the classifier decides about a renderable node: the kind of
// box to create and the style to create it with.
type Seed struct {
	Kind  Kind
	Style *css.Style
}

// Classify decides whether node generates a box. The second result is false
// for nodes that render nothing: display:none elements, whitespace-only
// text, and anything that is neither an element nor a text node. Classify
// looks at node alone; hiding the descendants of a display:none element is
// the builder's job.
func Classify(node *html.Node, resolver StyleResolver) (Seed, bool) {
	if node == nil {
		return Seed{}, false
	}
	switch node.Type {
	case html.TextNode:
		if strings.TrimSpace(node.Text) == "" {
			return Seed{}, false
		}
		return Seed{Kind: KindText, Style: resolver.Resolve(node)}, true

	case html.ElementNode:
		style := resolver.Resolve(node)
		switch style.GetDisplay() {
		case css.DisplayNone:
			return Seed{}, false
		case css.DisplayBlock:
			return Seed{Kind: KindBlock, Style: style}, true
		default:
			return Seed{Kind: KindInline, Style: style}, true
		}
	}
	return Seed{}, false
}
