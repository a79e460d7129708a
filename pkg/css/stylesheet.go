package css

import (
	"fmt"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator Combinator = iota // "div p"
	ChildCombinator                        // "div > p"
)

// AttributeSelector matches [name] or [name=value].
type AttributeSelector struct {
	Name     string
	Value    string
	HasValue bool
}

// SelectorPart is one compound selector, e.g. div.note#main[lang].
type SelectorPart struct {
	Element    string // "" or "*" matches any element
	ID         string
	Classes    []string
	Attributes []AttributeSelector
}

// Selector is a complex selector: Parts joined by Combinators, left to right.
// len(Combinators) == len(Parts)-1.
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator
	Specificity int
}

// Rule represents a CSS rule (selector + declarations)
type Rule struct {
	Selector     Selector
	Declarations map[string]string // property -> value
	Order        int               // source order across the stylesheet
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses CSS text into rules. Malformed rules, unknown
// at-rules and invalid declarations are skipped; the error return is
// reserved for callers that want to treat an unusable sheet as fatal and
// is currently always nil.
func ParseStylesheet(css string) (*Stylesheet, error) {
	stylesheet := &Stylesheet{Rules: make([]Rule, 0)}
	stylesheet.parseBlock(stripCSSComments(css))
	return stylesheet, nil
}

func (s *Stylesheet) parseBlock(css string) {
	for _, ruleStr := range splitRules(css) {
		prelude, body, err := splitPrelude(ruleStr)
		if err != nil {
			continue
		}
		if strings.HasPrefix(prelude, "@") {
			s.parseAtRule(prelude, body)
			continue
		}
		declarations := parseDeclarations(body)
		// A selector list shares one declaration block.
		for _, selStr := range strings.Split(prelude, ",") {
			selStr = strings.TrimSpace(selStr)
			if !isValidSelector(selStr) {
				continue
			}
			selector, err := parseSelector(selStr)
			if err != nil {
				continue
			}
			s.Rules = append(s.Rules, Rule{
				Selector:     selector,
				Declarations: declarations,
				Order:        len(s.Rules),
			})
		}
	}
}

// parseAtRule keeps the contents of @media blocks that apply to a screen of
// any size and drops every other at-rule.
func (s *Stylesheet) parseAtRule(prelude, body string) {
	name, query, _ := strings.Cut(prelude[1:], " ")
	if strings.ToLower(name) != "media" {
		return
	}
	switch strings.ToLower(strings.TrimSpace(query)) {
	case "", "all", "screen":
		s.parseBlock(body)
	}
}

// stripCSSComments removes /* ... */ comments outside string literals. An
// unterminated comment runs to the end of the input.
func stripCSSComments(css string) string {
	var sb strings.Builder
	var quote byte
	for i := 0; i < len(css); i++ {
		ch := css[i]
		if quote != 0 {
			sb.WriteByte(ch)
			if ch == quote {
				quote = 0
			}
			continue
		}
		if ch == '"' || ch == '\'' {
			quote = ch
			sb.WriteByte(ch)
			continue
		}
		if ch == '/' && i+1 < len(css) && css[i+1] == '*' {
			end := strings.Index(css[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 3
			continue
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// splitRules splits CSS into top-level "prelude { body }" chunks. Braces
// inside strings are ignored, a stray "}" at top level discards everything
// before it, and an unterminated trailing block is discarded.
func splitRules(css string) []string {
	rules := make([]string, 0)
	depth := 0
	start := 0
	var quote byte

	for i := 0; i < len(css); i++ {
		ch := css[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '{':
			depth++
		case ch == '}' && depth == 0:
			start = i + 1
		case ch == '}':
			depth--
			if depth == 0 {
				if ruleStr := strings.TrimSpace(css[start : i+1]); ruleStr != "" {
					rules = append(rules, ruleStr)
				}
				start = i + 1
			}
		}
	}
	return rules
}

func splitPrelude(ruleStr string) (prelude, body string, err error) {
	open := strings.Index(ruleStr, "{")
	end := strings.LastIndex(ruleStr, "}")
	if open < 0 || end < open {
		return "", "", fmt.Errorf("malformed rule %q", ruleStr)
	}
	return strings.TrimSpace(ruleStr[:open]), ruleStr[open+1 : end], nil
}

// isValidSelector rejects preludes containing block or statement
// punctuation and unbalanced attribute brackets.
func isValidSelector(sel string) bool {
	if sel == "" || strings.ContainsAny(sel, "{};") {
		return false
	}
	depth := 0
	for _, ch := range sel {
		switch ch {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// ParseSelectorGroup parses a comma-separated selector list such as the
// argument of querySelectorAll. Any invalid member fails the whole group.
func ParseSelectorGroup(group string) ([]Selector, error) {
	var selectors []Selector
	for _, raw := range strings.Split(group, ",") {
		raw = strings.TrimSpace(raw)
		if !isValidSelector(raw) {
			return nil, fmt.Errorf("invalid selector %q", raw)
		}
		sel, err := parseSelector(raw)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}
	return selectors, nil
}

// parseSelector parses a complex selector such as "ul > li.item a".
func parseSelector(raw string) (Selector, error) {
	selector := Selector{Raw: raw}
	fields := strings.Fields(strings.ReplaceAll(raw, ">", " > "))
	pending := DescendantCombinator
	for _, field := range fields {
		if field == ">" {
			if len(selector.Parts) == 0 {
				return Selector{}, fmt.Errorf("selector %q starts with a combinator", raw)
			}
			pending = ChildCombinator
			continue
		}
		part, err := parseCompound(field)
		if err != nil {
			return Selector{}, err
		}
		if len(selector.Parts) > 0 {
			selector.Combinators = append(selector.Combinators, pending)
		}
		selector.Parts = append(selector.Parts, part)
		pending = DescendantCombinator
	}
	if len(selector.Parts) == 0 || pending == ChildCombinator {
		return Selector{}, fmt.Errorf("empty selector %q", raw)
	}
	for _, part := range selector.Parts {
		selector.Specificity += part.specificity()
	}
	return selector, nil
}

func parseCompound(s string) (SelectorPart, error) {
	var part SelectorPart
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && isNameChar(s[i]) {
			i++
		}
		return s[start:i]
	}

	if i < len(s) && s[i] == '*' {
		part.Element = "*"
		i++
	} else {
		part.Element = strings.ToLower(readName())
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			if part.ID = readName(); part.ID == "" {
				return part, fmt.Errorf("empty id in %q", s)
			}
		case '.':
			i++
			class := readName()
			if class == "" {
				return part, fmt.Errorf("empty class in %q", s)
			}
			part.Classes = append(part.Classes, class)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return part, fmt.Errorf("unclosed attribute selector in %q", s)
			}
			attr, err := parseAttributeSelector(s[i+1 : i+end])
			if err != nil {
				return part, err
			}
			part.Attributes = append(part.Attributes, attr)
			i += end + 1
		default:
			// Pseudo-classes and anything else are outside what a static
			// layout can match.
			return part, fmt.Errorf("unsupported selector syntax %q", s[i:])
		}
	}
	return part, nil
}

func parseAttributeSelector(s string) (AttributeSelector, error) {
	name, value, hasValue := strings.Cut(s, "=")
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return AttributeSelector{}, fmt.Errorf("empty attribute selector")
	}
	value = strings.Trim(strings.TrimSpace(value), `"'`)
	return AttributeSelector{Name: name, Value: value, HasValue: hasValue}, nil
}

func (p SelectorPart) specificity() int {
	spec := 0
	if p.ID != "" {
		spec += 100
	}
	spec += 10 * (len(p.Classes) + len(p.Attributes))
	if p.Element != "" && p.Element != "*" {
		spec++
	}
	return spec
}

func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c >= 0x80
}

// parseDeclarations parses "prop: value; ..." into a map, expanding
// shorthands and dropping declarations without a valid property name or a
// value.
func parseDeclarations(declStr string) map[string]string {
	style := NewStyle()
	for _, part := range strings.Split(declStr, ";") {
		property, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.TrimSpace(value)
		if !isValidProperty(property) || value == "" {
			continue
		}
		expandShorthand(style, property, value)
	}
	return style.Properties
}

func isValidProperty(p string) bool {
	if p == "" {
		return false
	}
	if p[0] >= '0' && p[0] <= '9' {
		return false
	}
	for i := 0; i < len(p); i++ {
		if !isNameChar(p[i]) {
			return false
		}
	}
	return true
}
