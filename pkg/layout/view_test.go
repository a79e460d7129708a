package layout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"boxtree/pkg/css"
	"boxtree/pkg/html"
)

type boxSnapshot struct {
	Node  string
	Kind  Kind
	Depth int
	Pos   Point
	Size  Size
}

func snapshot(v *View) []boxSnapshot {
	var out []boxSnapshot
	v.Walk(func(id BoxID, depth int) bool {
		box := v.Box(id)
		s, _ := box.Size()
		p, _ := box.Position()
		out = append(out, boxSnapshot{describe(box.Node()), box.Kind(), depth, p, s})
		return true
	})
	return out
}

const sampleDoc = `<html><head><title>t</title><style>.hide { display: none }</style></head>
<body>
  <h1>Heading</h1>
  <p>Some <b>bold</b> text</p>
  <div class="hide"><p>never</p></div>
  <h2>Sub</h2>
</body></html>`

func parseSample(t *testing.T) *html.Document {
	t.Helper()
	doc, err := html.Parse(sampleDoc)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

func TestView_Idempotent(t *testing.T) {
	doc := parseSample(t)
	first := snapshot(NewView(doc.Root, css.NewDocumentCascade(doc)))
	second := snapshot(NewView(doc.Root, css.NewDocumentCascade(doc)))
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("layout changed between runs (-first +second):\n%s", diff)
	}
}

func TestView_Snapshot(t *testing.T) {
	doc := parseSample(t)
	got := snapshot(NewView(doc.Root, css.NewDocumentCascade(doc)))
	want := []boxSnapshot{
		{`<h1>`, KindBlock, 0, Point{0, 0}, Size{590, 60}},
		{`TEXT("Heading")`, KindText, 1, Point{0, 0}, Size{168, 60}},
		{`<p>`, KindBlock, 0, Point{0, 60}, Size{590, 20}},
		{`TEXT("Some ")`, KindText, 1, Point{0, 60}, Size{40, 20}},
		{`<b>`, KindInline, 1, Point{40, 60}, Size{32, 20}},
		{`TEXT("bold")`, KindText, 2, Point{40, 60}, Size{32, 20}},
		{`TEXT(" text")`, KindText, 1, Point{72, 60}, Size{40, 20}},
		{`<h2>`, KindBlock, 0, Point{0, 80}, Size{590, 40}},
		{`TEXT("Sub")`, KindText, 1, Point{0, 80}, Size{48, 40}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected layout (-want +got):\n%s", diff)
	}
}

func TestView_Dump(t *testing.T) {
	v := layoutOf(t, page(el("p", "", txt("hello"))))
	var buf bytes.Buffer
	if err := v.Dump(&buf); err != nil {
		t.Fatalf("dump error: %v", err)
	}
	want := "<p> block pos=(0.0,0.0) size=(590.0x20.0)\n" +
		"  TEXT(\"hello\") text pos=(0.0,0.0) size=(40.0x20.0)\n"
	if buf.String() != want {
		t.Errorf("unexpected dump:\n%s", buf.String())
	}
}

func TestView_DumpEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := layoutOf(t, page()).Dump(&buf); err != nil || buf.Len() != 0 {
		t.Errorf("expected no output, got %q (err %v)", buf.String(), err)
	}
}

func TestView_WalkSkipsChildren(t *testing.T) {
	v := layoutOf(t, page(el("div", "", el("p", "", txt("a"))), el("p", "", txt("b"))))
	var visited int
	v.Walk(func(id BoxID, depth int) bool {
		visited++
		return false
	})
	if visited != 2 {
		t.Errorf("expected only the 2 top-level boxes, got %d", visited)
	}
}

type wideMeasurer struct{}

func (wideMeasurer) Measure(s string, _ float64) float64 { return float64(len(s)) * 100 }

func TestView_WithMeasurer(t *testing.T) {
	v := layoutOf(t, page(el("p", "", txt("ab cd"))), WithMeasurer(wideMeasurer{}), WithContentWidth(300))
	s, _ := v.Box(v.Box(v.Root()).FirstChild()).Size()
	// Each word is 200px wide, so the text wraps to two lines.
	if s.Height != 40 {
		t.Errorf("expected two lines, got height %v", s.Height)
	}
}

func TestView_WithContentWidthIgnoresNonPositive(t *testing.T) {
	v := layoutOf(t, page(el("div", "")), WithContentWidth(0), WithContentWidth(-3))
	if s, _ := v.Box(v.Root()).Size(); s.Width != ContentAreaWidth {
		t.Errorf("expected default width, got %v", s.Width)
	}
}

func TestView_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	layoutOf(t, page(el("p", "", txt("a"))), WithLogger(logger))
	if !strings.Contains(buf.String(), "built box tree") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestView_NilResolverUsesDefaults(t *testing.T) {
	v := NewView(page(el("div", "", txt("a")), el("script", "")), nil)
	if v.Len() != 2 {
		t.Errorf("expected div and text boxes, got %d", v.Len())
	}
	if v.Box(v.Root()).Kind() != KindBlock {
		t.Error("expected div to be a block")
	}
}
