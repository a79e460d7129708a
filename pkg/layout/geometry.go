package layout

import (
	"math"

	"golang.org/x/net/html/atom"

	"boxtree/pkg/text"
)

// flow stacks the boxes of one sibling chain. A block box is a row of its
// own; consecutive inline and text boxes share a row whose height is the
// tallest of them. The size pass and the position pass both go through
// flow, so a container's size always agrees with where its children land.
type flow struct {
	origin Point
	y      float64 // top of the next row
	width  float64 // widest closed row

	open      bool
	x         float64 // next inline origin in the open row
	rowTop    float64
	rowWidth  float64
	rowHeight float64
}

func newFlow(origin Point) flow {
	return flow{origin: origin, y: origin.Y}
}

// place appends a box of the given kind and size and returns its origin.
func (f *flow) place(kind Kind, s Size) Point {
	if kind == KindBlock {
		f.closeRow()
		p := Point{X: f.origin.X, Y: f.y}
		f.y += s.Height
		f.width = math.Max(f.width, s.Width)
		return p
	}
	if !f.open {
		f.open = true
		f.x = f.origin.X
		f.rowTop = f.y
		f.rowWidth = 0
		f.rowHeight = 0
	}
	p := Point{X: f.x, Y: f.rowTop}
	f.x += s.Width
	f.rowWidth += s.Width
	f.rowHeight = math.Max(f.rowHeight, s.Height)
	return p
}

func (f *flow) closeRow() {
	if !f.open {
		return
	}
	f.open = false
	f.y = f.rowTop + f.rowHeight
	f.width = math.Max(f.width, f.rowWidth)
}

// breakAfter closes the open row if box forces a line break.
func (f *flow) breakAfter(box *Box) {
	if isLineBreak(box) {
		f.closeRow()
	}
}

// extent closes the open row and returns the size of everything placed.
func (f *flow) extent() Size {
	f.closeRow()
	return Size{Width: f.width, Height: f.y - f.origin.Y}
}

// walkPostOrder visits the sibling chain starting at id. enter runs before a
// box's children and returns the width available to them; leave runs after
// them. Siblings share the available width of their parent.
func walkPostOrder(t *Tree, id BoxID, available float64,
	enter func(id BoxID, available float64) float64,
	leave func(id BoxID, available float64)) {
	for ; id != NoBox; id = t.Box(id).nextSibling {
		inner := enter(id, available)
		walkPostOrder(t, t.Box(id).firstChild, inner, enter, leave)
		leave(id, available)
	}
}

// walkPreOrder visits the sibling chain starting at id with a fresh flow
// anchored at origin. visit places the box and returns the origin its own
// children are anchored at.
func walkPreOrder(t *Tree, id BoxID, origin Point, visit func(id BoxID, f *flow) Point) {
	f := newFlow(origin)
	for ; id != NoBox; id = t.Box(id).nextSibling {
		inner := visit(id, &f)
		walkPreOrder(t, t.Box(id).firstChild, inner, visit)
	}
}

// geometry computes sizes and positions for a built tree.
type geometry struct {
	tree     *Tree
	measurer text.Measurer
}

// sizePass sizes every box reachable from root. Block boxes take the
// available width; inline boxes shrink to their rows; text boxes take their
// measured width, wrapping at whitespace when wider than the available
// width.
func (g *geometry) sizePass(root BoxID, availableWidth float64) {
	enter := func(id BoxID, available float64) float64 {
		box := g.tree.Box(id)
		if box.kind == KindBlock {
			box.size.Width = available
		}
		return available
	}
	leave := func(id BoxID, available float64) {
		box := g.tree.Box(id)
		switch box.kind {
		case KindText:
			box.size = g.measureText(box, available)
		case KindBlock:
			box.size.Height = g.contentSize(id).Height
		case KindInline:
			if isLineBreak(box) {
				box.size = Size{Height: box.style.GetLineHeight()}
				break
			}
			fallthrough
		default:
			box.size = g.contentSize(id)
		}
		box.sized = true
	}
	walkPostOrder(g.tree, root, availableWidth, enter, leave)
}

// contentSize flows the already-sized children of id.
func (g *geometry) contentSize(id BoxID) Size {
	f := newFlow(Point{})
	for c := g.tree.Box(id).firstChild; c != NoBox; c = g.tree.Box(c).nextSibling {
		child := g.tree.Box(c)
		f.place(child.kind, child.size)
		f.breakAfter(child)
	}
	return f.extent()
}

// isLineBreak reports whether box is a <br>: an empty inline one line tall
// that ends the row it sits on.
func isLineBreak(box *Box) bool {
	return box.kind == KindInline && box.node.Kind() == atom.Br
}

func (g *geometry) measureText(box *Box, available float64) Size {
	fontSize := box.style.GetFontSize()
	lineHeight := box.style.GetLineHeight()
	lines := text.BreakLines(g.measurer, box.node.Text, fontSize, available)

	width := 0.0
	for _, line := range lines {
		width = math.Max(width, g.measurer.Measure(line, fontSize))
	}
	if available > 0 {
		width = math.Min(width, available)
	}
	return Size{Width: width, Height: float64(len(lines)) * lineHeight}
}

// positionPass assigns origins, placing root's sibling chain at origin.
func (g *geometry) positionPass(root BoxID, origin Point) {
	walkPreOrder(g.tree, root, origin, func(id BoxID, f *flow) Point {
		box := g.tree.Box(id)
		box.position = f.place(box.kind, box.size)
		box.placed = true
		f.breakAfter(box)
		return box.position
	})
}
