package css

import (
	"slices"
	"strings"

	"boxtree/pkg/html"
)

// MatchesSelector returns true if the node matches the complex selector
func MatchesSelector(node *html.Node, selector Selector) bool {
	if node == nil || node.Type != html.ElementNode || len(selector.Parts) == 0 {
		return false
	}
	// Start matching from the rightmost part (the target element)
	return matchesFrom(node, selector, len(selector.Parts)-1)
}

// matchesFrom checks the part at partIndex against node and then walks the
// combinators leftwards.
func matchesFrom(node *html.Node, selector Selector, partIndex int) bool {
	if !matchesPart(node, selector.Parts[partIndex]) {
		return false
	}
	if partIndex == 0 {
		return true
	}

	switch selector.Combinators[partIndex-1] {
	case ChildCombinator:
		parent := node.Parent
		return isElement(parent) && matchesFrom(parent, selector, partIndex-1)
	default:
		for ancestor := node.Parent; isElement(ancestor); ancestor = ancestor.Parent {
			if matchesFrom(ancestor, selector, partIndex-1) {
				return true
			}
		}
		return false
	}
}

func isElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

func matchesPart(node *html.Node, part SelectorPart) bool {
	if part.Element != "" && part.Element != "*" && node.TagName != part.Element {
		return false
	}

	if part.ID != "" {
		if id, ok := node.GetAttribute("id"); !ok || id != part.ID {
			return false
		}
	}

	if len(part.Classes) > 0 {
		classAttr, ok := node.GetAttribute("class")
		if !ok {
			return false
		}
		nodeClasses := strings.Fields(classAttr)
		for _, required := range part.Classes {
			if !slices.Contains(nodeClasses, required) {
				return false
			}
		}
	}

	for _, attr := range part.Attributes {
		value, ok := node.GetAttribute(attr.Name)
		if !ok || (attr.HasValue && value != attr.Value) {
			return false
		}
	}
	return true
}

// FindMatchingRules returns all rules that match the given node
func FindMatchingRules(node *html.Node, stylesheet *Stylesheet) []Rule {
	matches := make([]Rule, 0)
	for _, rule := range stylesheet.Rules {
		if MatchesSelector(node, rule.Selector) {
			matches = append(matches, rule)
		}
	}
	return matches
}
