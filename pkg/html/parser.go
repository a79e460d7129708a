package html

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	xhtml "golang.org/x/net/html"
)

// Parser builds a Document from markup. Tokenization is delegated to
// golang.org/x/net/html; tree construction is a simplified stack machine
// that understands void elements and implicit </p>.
type Parser struct {
	tokenizer *xhtml.Tokenizer
	doc       *Document
	stack     []*Node
	rawTag    string // "style" or "script" while inside one, else ""
	rawText   strings.Builder
}

func NewParser(r io.Reader) *Parser {
	return &Parser{
		tokenizer: xhtml.NewTokenizer(r),
		doc:       NewDocument(),
	}
}

func (p *Parser) Parse() (*Document, error) {
	p.stack = []*Node{p.doc.Root}

	for {
		tt := p.tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			err := p.tokenizer.Err()
			if errors.Is(err, io.EOF) {
				p.flushRaw()
				return p.doc, nil
			}
			return nil, fmt.Errorf("tokenizer error: %w", err)

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			p.startTag(tt == xhtml.SelfClosingTagToken)

		case xhtml.EndTagToken:
			name, _ := p.tokenizer.TagName()
			tag := string(name)
			if p.rawTag != "" && tag == p.rawTag {
				p.flushRaw()
				continue
			}
			p.closeTag(tag)

		case xhtml.TextToken:
			if p.rawTag != "" {
				p.rawText.Write(p.tokenizer.Text())
				continue
			}
			if text := normalizeWhitespace(string(p.tokenizer.Text())); text != "" {
				p.currentParent().AppendText(text)
			}

		default:
			// Comments and doctypes do not appear in the tree.
		}
	}
}

func (p *Parser) startTag(selfClosing bool) {
	name, hasAttr := p.tokenizer.TagName()
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = p.tokenizer.TagAttr()
		attrs[string(key)] = string(val)
	}
	node := NewElement(string(name), attrs)

	if isBlockElement(node.TagName) {
		p.autoCloseP()
	}
	p.currentParent().AddChild(node)

	switch node.TagName {
	case "style", "script":
		// Raw text elements stay in the tree as empty elements; their
		// content is collected on the document instead.
		p.rawTag = node.TagName
		p.rawText.Reset()
		return
	}

	if !selfClosing && !isVoidElement(node.TagName) {
		p.stack = append(p.stack, node)
	}
}

func (p *Parser) flushRaw() {
	switch p.rawTag {
	case "style":
		p.doc.Stylesheets = append(p.doc.Stylesheets, p.rawText.String())
	case "script":
		p.doc.Scripts = append(p.doc.Scripts, p.rawText.String())
	}
	p.rawTag = ""
	p.rawText.Reset()
}

func (p *Parser) currentParent() *Node {
	return p.stack[len(p.stack)-1]
}

// closeTag pops the stack down to and including the nearest open element
// named tagName. Stray end tags are ignored.
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			p.stack = p.stack[:i]
			return
		}
	}
}

// autoCloseP closes an open <p> unless a block container sits above it.
func (p *Parser) autoCloseP() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == "p" {
			p.stack = p.stack[:i]
			return
		}
		if isBlockElement(p.stack[i].TagName) {
			return
		}
	}
}

func isBlockElement(tagName string) bool {
	switch tagName {
	case "address", "article", "aside", "blockquote", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "li", "main", "nav", "ol",
		"p", "pre", "section", "table", "ul":
		return true
	}
	return false
}

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// normalizeWhitespace collapses whitespace runs to one space, keeping a
// single boundary space on either side. Whitespace-only input yields "".
func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	var sb strings.Builder
	if unicode.IsSpace(rune(s[0])) {
		sb.WriteByte(' ')
	}
	sb.WriteString(strings.Join(fields, " "))
	if unicode.IsSpace(rune(s[len(s)-1])) {
		sb.WriteByte(' ')
	}
	return sb.String()
}

func Parse(src string) (*Document, error) {
	return NewParser(strings.NewReader(src)).Parse()
}
