package css

import (
	"sort"
	"strconv"
	"strings"

	"boxtree/pkg/html"
)

// userAgentCSS holds the default display and font-size of the elements the
// layout knows about. Anything not listed is inline.
const userAgentCSS = `
html, body, address, article, aside, blockquote, center, dd, details,
dialog, dir, div, dl, dt, fieldset, figcaption, figure, footer, form,
h1, h2, h3, h4, h5, h6, header, hgroup, hr, legend, li, main, menu, nav,
ol, p, pre, section, summary, table, tr, td, th, ul {
	display: block;
}
head, script, style, title, meta, link, base, template, noscript, datalist {
	display: none;
}
h1 { font-size: xx-large; }
h2 { font-size: x-large; }
h3 { font-size: large; }
`

var userAgentSheet = mustParse(userAgentCSS)

func mustParse(css string) *Stylesheet {
	sheet, err := ParseStylesheet(css)
	if err != nil {
		panic("css: user-agent stylesheet: " + err.Error())
	}
	return sheet
}

// inheritedProperties are copied from parent to child before the child's
// own rules apply.
var inheritedProperties = []string{
	"color",
	"font-family",
	"font-size",
	"font-style",
	"font-weight",
	"line-height",
	"visibility",
	"white-space",
}

// Cascade resolves the computed style of document nodes against the
// user-agent sheet and a list of author sheets. Results are memoized per
// node; a Cascade must not be shared between goroutines or reused after
// the document is mutated.
type Cascade struct {
	sheets []*Stylesheet
	root   *Style
	cache  map[*html.Node]*Style
}

// NewCascade returns a cascade over the given author sheets, in order.
// Nil sheets are ignored.
func NewCascade(sheets ...*Stylesheet) *Cascade {
	c := &Cascade{cache: make(map[*html.Node]*Style)}
	for _, s := range sheets {
		if s != nil {
			c.sheets = append(c.sheets, s)
		}
	}
	return c
}

// NewDocumentCascade parses every <style> block of doc into an author sheet.
func NewDocumentCascade(doc *html.Document) *Cascade {
	sheets := make([]*Stylesheet, 0, len(doc.Stylesheets))
	for _, cssText := range doc.Stylesheets {
		if sheet, err := ParseStylesheet(cssText); err == nil {
			sheets = append(sheets, sheet)
		}
	}
	return NewCascade(sheets...)
}

// WithRoot sets the style that top-level elements inherit from, standing
// in for the environment outside the document. It must be called before
// the first Resolve.
func (c *Cascade) WithRoot(root *Style) *Cascade {
	c.root = root
	return c
}

// Resolve returns the computed style of node. Text nodes get the inherited
// properties of their parent element; the document node gets an empty
// style.
func (c *Cascade) Resolve(node *html.Node) *Style {
	if node == nil {
		return NewStyle()
	}
	if style, ok := c.cache[node]; ok {
		return style
	}

	parent := c.root
	if isElement(node.Parent) {
		parent = c.Resolve(node.Parent)
	}

	var style *Style
	switch node.Type {
	case html.ElementNode:
		style = ComputeStyle(node, parent, c.sheets)
	case html.TextNode:
		style = inherit(parent)
	default:
		style = NewStyle()
	}
	c.cache[node] = style
	return style
}

// ComputeStyle computes the final style for an element by applying the
// cascade: inherited values, then user-agent rules, then author rules in
// specificity and source order, then the inline style attribute.
func ComputeStyle(node *html.Node, parent *Style, stylesheets []*Stylesheet) *Style {
	finalStyle := inherit(parent)

	applyRules(finalStyle, FindMatchingRules(node, userAgentSheet))

	authorRules := make([]Rule, 0)
	for i, stylesheet := range stylesheets {
		for _, rule := range FindMatchingRules(node, stylesheet) {
			// Later sheets win ties with earlier ones.
			rule.Order += i << 20
			authorRules = append(authorRules, rule)
		}
	}
	applyRules(finalStyle, authorRules)

	if styleAttr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(styleAttr).Properties {
			finalStyle.Set(property, value)
		}
	}

	resolveKeywords(finalStyle, parent)
	return finalStyle
}

func applyRules(style *Style, rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Selector.Specificity != rules[j].Selector.Specificity {
			return rules[i].Selector.Specificity < rules[j].Selector.Specificity
		}
		return rules[i].Order < rules[j].Order
	})
	for _, rule := range rules {
		for property, value := range rule.Declarations {
			style.Set(property, value)
		}
	}
}

func inherit(parent *Style) *Style {
	style := NewStyle()
	if parent == nil {
		return style
	}
	for _, property := range inheritedProperties {
		if value, ok := parent.Get(property); ok {
			style.Set(property, value)
		}
	}
	return style
}

// resolveKeywords replaces "inherit"/"initial" and turns relative font
// sizes into pixels so that children inherit an absolute value.
func resolveKeywords(style *Style, parent *Style) {
	for property, value := range style.Properties {
		switch strings.ToLower(value) {
		case "inherit":
			if pv, ok := parentValue(parent, property); ok {
				style.Set(property, pv)
			} else {
				delete(style.Properties, property)
			}
		case "initial":
			delete(style.Properties, property)
		}
	}

	value, ok := style.Get("font-size")
	if !ok {
		return
	}
	parentSize := DefaultFontSize
	if parent != nil {
		parentSize = parent.GetFontSize()
	}
	value = strings.TrimSpace(value)
	var factor string
	var scale float64
	switch {
	case strings.HasSuffix(value, "em") && !strings.HasSuffix(value, "rem"):
		factor, scale = strings.TrimSuffix(value, "em"), parentSize
	case strings.HasSuffix(value, "%"):
		factor, scale = strings.TrimSuffix(value, "%"), parentSize/100
	default:
		return
	}
	if f, err := strconv.ParseFloat(factor, 64); err == nil && f > 0 {
		style.Set("font-size", strconv.FormatFloat(f*scale, 'f', -1, 64)+"px")
	}
}

func parentValue(parent *Style, property string) (string, bool) {
	if parent == nil {
		return "", false
	}
	return parent.Get(property)
}
