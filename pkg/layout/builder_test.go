package layout

import (
	"strings"
	"testing"

	"boxtree/pkg/css"
	"boxtree/pkg/html"
)

// el builds an element with an optional inline style and children.
func el(tag, style string, children ...*html.Node) *html.Node {
	attrs := map[string]string{}
	if style != "" {
		attrs["style"] = style
	}
	n := html.NewElement(tag, attrs)
	for _, c := range children {
		n.AddChild(c)
	}
	return n
}

func txt(s string) *html.Node { return html.NewText(s) }

// within reports whether n is ancestor or one of its descendants.
func within(n, ancestor *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

// page wraps children in <html><body> under a document root.
func page(children ...*html.Node) *html.Node {
	root := html.NewDocument().Root
	root.AddChild(el("html", "", el("body", "", children...)))
	return root
}

func layoutOf(t *testing.T, root *html.Node, opts ...Option) *View {
	t.Helper()
	return NewView(root, css.NewCascade(), opts...)
}

// nodesOf lists the document nodes of the boxes reachable from id in
// document order.
func nodesOf(v *View) []*html.Node {
	var out []*html.Node
	v.Walk(func(id BoxID, _ int) bool {
		out = append(out, v.Box(id).Node())
		return true
	})
	return out
}

func TestBuild_EmptyBody(t *testing.T) {
	v := layoutOf(t, page())
	if !v.Empty() || v.Root() != NoBox || v.Len() != 0 {
		t.Errorf("expected empty view, got root=%d len=%d", v.Root(), v.Len())
	}
}

func TestBuild_HiddenSiblingSkipped(t *testing.T) {
	// body: [div(display:none) > span, p("text")]
	hidden := el("div", "display: none", el("span", "", txt("hidden")))
	p := el("p", "", txt("text"))
	v := layoutOf(t, page(hidden, p))

	if v.Empty() {
		t.Fatal("expected a box tree")
	}
	root := v.Box(v.Root())
	if root.Node() != p {
		t.Fatalf("expected root box for <p>, got %s", describe(root.Node()))
	}
	if root.NextSibling() != NoBox {
		t.Error("expected <p> to be the only top-level box")
	}
	if v.Len() != 2 {
		t.Errorf("expected boxes for <p> and its text only, got %d", v.Len())
	}
	for _, n := range nodesOf(v) {
		if within(n, hidden) {
			t.Errorf("box produced for hidden node %s", describe(n))
		}
	}
}

func TestBuild_AncestorNoneHidesBlockDescendant(t *testing.T) {
	// body: [div(display:none) > span(display:block)]
	v := layoutOf(t, page(el("div", "display: none", el("span", "display: block", txt("x")))))
	if !v.Empty() {
		t.Errorf("expected empty box tree, got %d boxes", v.Len())
	}
}

func TestBuild_SiblingOrderPreserved(t *testing.T) {
	a := el("p", "", txt("a"))
	b := el("div", "display: none", el("p", "", txt("hidden")))
	c := el("p", "", txt("c"))
	d := el("script", "")
	e := el("span", "", txt("e"))
	v := layoutOf(t, page(a, b, c, d, e))

	var got []*html.Node
	for id := v.Root(); id != NoBox; id = v.Box(id).NextSibling() {
		got = append(got, v.Box(id).Node())
	}
	want := []*html.Node{a, c, e}
	if len(got) != len(want) {
		t.Fatalf("expected %d top-level boxes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, describe(want[i]), describe(got[i]))
		}
	}
}

func TestBuild_FirstChildHiddenLaterChildKept(t *testing.T) {
	// The first document child is filtered; the box's first child must be
	// the nearest renderable following sibling.
	keep := el("em", "", txt("kept"))
	div := el("div", "", el("b", "display: none", txt("gone")), txt("   "), keep)
	v := layoutOf(t, page(div))

	box := v.Box(v.Root())
	if box.FirstChild() == NoBox {
		t.Fatal("expected a first child")
	}
	if got := v.Box(box.FirstChild()).Node(); got != keep {
		t.Errorf("expected <em> as first child, got %s", describe(got))
	}
}

func TestBuild_AllChildrenHidden(t *testing.T) {
	div := el("div", "", el("b", "display: none"), el("i", "display: none"))
	v := layoutOf(t, page(div))
	if v.Len() != 1 {
		t.Fatalf("expected only the div box, got %d", v.Len())
	}
	if v.Box(v.Root()).FirstChild() != NoBox {
		t.Error("expected no children")
	}
}

func TestBuild_ParentLinks(t *testing.T) {
	p := el("p", "", txt("one"), el("b", "", txt("two")), txt("three"))
	v := layoutOf(t, page(p, el("div", "")))

	root := v.Root()
	if v.Box(root).Parent() != NoBox {
		t.Error("top-level boxes have no parent")
	}
	if v.Box(v.Box(root).NextSibling()).Parent() != NoBox {
		t.Error("top-level siblings have no parent")
	}
	children := v.Children(root)
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	for _, c := range children {
		if v.Box(c).Parent() != root {
			t.Errorf("box %d: expected parent %d, got %d", c, root, v.Box(c).Parent())
		}
	}
}

func TestBuild_BodyIsNotABox(t *testing.T) {
	v := layoutOf(t, page(el("div", "")))
	for _, n := range nodesOf(v) {
		if n.TagName == "body" || n.TagName == "html" {
			t.Errorf("unexpected box for <%s>", n.TagName)
		}
	}
}

func TestBuild_NoBody(t *testing.T) {
	root := html.NewDocument().Root
	root.AddChild(el("div", "", txt("outside body")))
	if v := layoutOf(t, root); !v.Empty() {
		t.Errorf("expected empty view without <body>, got %d boxes", v.Len())
	}
	if v := NewView(nil, nil); !v.Empty() {
		t.Error("expected empty view for nil document")
	}
}

// countRenderable counts element and non-blank text nodes below n.
func countRenderable(n *html.Node) int {
	count := 0
	for _, c := range n.Children {
		if c.Type == html.ElementNode || strings.TrimSpace(c.Text) != "" {
			count++
		}
		count += countRenderable(c)
	}
	return count
}

func TestBuild_BoxCountMatchesNodesWithoutDisplayNone(t *testing.T) {
	body := el("body", "",
		el("div", "",
			el("p", "", txt("a"), el("span", "", txt("b"), el("em", "", txt("c")))),
			el("ul", "", el("li", "", txt("1")), el("li", "", txt("2"))),
		),
		el("p", "", txt("tail")),
	)
	root := html.NewDocument().Root
	root.AddChild(body)

	v := layoutOf(t, root)
	if want := countRenderable(body); v.Len() != want {
		t.Errorf("expected %d boxes, got %d", want, v.Len())
	}

	// Hiding a node anywhere makes the box count strictly smaller.
	body.Children[0].Children[1].Children[0].SetAttribute("style", "display: none")
	v = layoutOf(t, root)
	if v.Len() >= countRenderable(body) {
		t.Errorf("expected fewer boxes than nodes, got %d of %d", v.Len(), countRenderable(body))
	}
}

func TestBuild_BoxTreeMirrorsDocument(t *testing.T) {
	doc, err := html.Parse(`<body>
		<div><h1>Title</h1><p>One <b>two</b> three</p></div>
		<div style="display:none"><p>gone</p></div>
		<p>last</p>
	</body>`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	v := layoutOf(t, doc.Root)

	// Every box's children are the nearest rendered descendants of its
	// node, in document order.
	v.Walk(func(id BoxID, _ int) bool {
		box := v.Box(id)
		var want []*html.Node
		for _, c := range box.Node().Children {
			if _, ok := Classify(c, css.NewCascade()); ok {
				want = append(want, c)
			}
		}
		got := v.Children(id)
		if len(got) != len(want) {
			t.Errorf("%s: expected %d children, got %d", describe(box.Node()), len(want), len(got))
			return true
		}
		for i := range got {
			if v.Box(got[i]).Node() != want[i] {
				t.Errorf("%s child %d: expected %s", describe(box.Node()), i, describe(want[i]))
			}
		}
		return true
	})
}

func TestBuild_LongSiblingRun(t *testing.T) {
	const n = 50000
	children := make([]*html.Node, 0, n)
	for i := 0; i < n; i++ {
		style := ""
		if i%2 == 1 {
			style = "display: none"
		}
		children = append(children, el("span", style, txt("x")))
	}
	v := layoutOf(t, page(children...))
	// n/2 spans each with one text box.
	if v.Len() != n {
		t.Errorf("expected %d boxes, got %d", n, v.Len())
	}
}

func TestBuild_PreOrderIDs(t *testing.T) {
	v := layoutOf(t, page(el("div", "", el("p", "", txt("a"))), el("p", "", txt("b"))))
	next := BoxID(0)
	v.Walk(func(id BoxID, _ int) bool {
		if id != next {
			t.Errorf("expected id %d in document order, got %d", next, id)
		}
		next++
		return true
	})
}

func TestTree_BoxPanicsOnMissingID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a missing box")
		}
	}()
	(&Tree{}).Box(3)
}
