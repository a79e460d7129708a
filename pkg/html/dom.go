package html

import (
	"strings"

	"golang.org/x/net/html/atom"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node

	// index caches this node's position in Parent.Children so that
	// NextSibling stays O(1) on long sibling runs. It is revalidated on use.
	index int
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	DocumentNode
)

type Document struct {
	Root        *Node
	Stylesheets []string // CSS from <style> tags, in document order
	Scripts     []string // JavaScript from <script> tags, in document order
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     DocumentNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// NewElement returns a detached element node.
func NewElement(tag string, attrs map[string]string) *Node {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: attrs,
		Children:   make([]*Node, 0),
	}
}

// NewText returns a detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// Kind returns the element kind of an element node, or 0 for text and
// document nodes and for tags unknown to the atom table.
func (n *Node) Kind() atom.Atom {
	if n == nil || n.Type != ElementNode {
		return 0
	}
	return atom.Lookup([]byte(n.TagName))
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[strings.ToLower(name)] = value
}

func (n *Node) RemoveAttribute(name string) {
	delete(n.Attributes, strings.ToLower(name))
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) *Node {
	child.Parent = n
	child.index = len(n.Children)
	n.Children = append(n.Children, child)
	return child
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(NewText(text))
}

// RemoveChild detaches child and returns it, or nil if child is not a
// child of n.
func (n *Node) RemoveChild(child *Node) *Node {
	i := child.IndexInParent()
	if child.Parent != n || i < 0 {
		return nil
	}
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	for j := i; j < len(n.Children); j++ {
		n.Children[j].index = j
	}
	child.Parent = nil
	child.index = 0
	return child
}

// IndexInParent returns the index of this node among its parent's children,
// or -1 if it has no parent.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	siblings := n.Parent.Children
	if n.index < len(siblings) && siblings[n.index] == n {
		return n.index
	}
	for i, c := range siblings {
		if c == n {
			n.index = i
			return i
		}
	}
	return -1
}

// FirstChild returns the first child of n, or nil.
func (n *Node) FirstChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// NextSibling returns the node following n in its parent's children, or nil.
func (n *Node) NextSibling() *Node {
	if n == nil {
		return nil
	}
	i := n.IndexInParent()
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

// TextContent concatenates the text of n and all its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// FindElement returns the first element of the given kind in document order,
// searching root itself and all its descendants. It returns nil when there
// is none.
func FindElement(root *Node, kind atom.Atom) *Node {
	if root == nil {
		return nil
	}
	if root.Kind() == kind {
		return root
	}
	for _, child := range root.Children {
		if found := FindElement(child, kind); found != nil {
			return found
		}
	}
	return nil
}
