package layout

import (
	"fmt"

	"boxtree/pkg/css"
	"boxtree/pkg/html"
)

// Kind is the formatting behaviour of a box.
type Kind int

const (
	KindBlock Kind = iota
	KindInline
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindInline:
		return "inline"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// BoxID addresses a box inside its Tree. IDs are dense and assigned in
// pre-order: a box's ID is smaller than the IDs of all its descendants.
type BoxID int32

// NoBox marks an absent link.
const NoBox BoxID = -1

// Size represents dimensions (width and height)
type Size struct {
	Width  float64
	Height float64
}

// Point is an origin relative to the box tree root.
type Point struct {
	X float64
	Y float64
}

// Box is one renderable unit. Fields are written only by the builder
// (links), the size pass (size) and the position pass (position); callers
// outside the package see it through read-only accessors.
type Box struct {
	kind  Kind
	style *css.Style
	node  *html.Node

	size     Size
	position Point
	sized    bool
	placed   bool

	parent      BoxID
	firstChild  BoxID
	nextSibling BoxID
}

func (b *Box) Kind() Kind { return b.kind }

// Style is the resolved style the box was built with.
func (b *Box) Style() *css.Style { return b.style }

// Node is the document node the box was generated for.
func (b *Box) Node() *html.Node { return b.node }

// Size returns the computed size and whether the size pass has run.
func (b *Box) Size() (Size, bool) { return b.size, b.sized }

// Position returns the computed origin and whether the position pass has run.
func (b *Box) Position() (Point, bool) { return b.position, b.placed }

func (b *Box) Parent() BoxID      { return b.parent }
func (b *Box) FirstChild() BoxID  { return b.firstChild }
func (b *Box) NextSibling() BoxID { return b.nextSibling }

// Tree is an arena of boxes. The first-child link is the only owning
// relation; parent and next-sibling are plain handles, so the structure has
// no reference cycles.
type Tree struct {
	boxes []Box
}

// Len returns the number of boxes in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.boxes)
}

// Box returns the box addressed by id. Addressing a box that does not exist
// is a defect in the caller and panics.
func (t *Tree) Box(id BoxID) *Box {
	if t == nil || id < 0 || int(id) >= len(t.boxes) {
		panic(fmt.Sprintf("layout: box %d does not exist (tree has %d boxes)", id, t.Len()))
	}
	return &t.boxes[id]
}

// Children returns the IDs of id's children in order.
func (t *Tree) Children(id BoxID) []BoxID {
	var out []BoxID
	for c := t.Box(id).firstChild; c != NoBox; c = t.boxes[c].nextSibling {
		out = append(out, c)
	}
	return out
}

func (t *Tree) add(seed Seed, node *html.Node, parent BoxID) BoxID {
	id := BoxID(len(t.boxes))
	t.boxes = append(t.boxes, Box{
		kind:        seed.Kind,
		style:       seed.Style,
		node:        node,
		parent:      parent,
		firstChild:  NoBox,
		nextSibling: NoBox,
	})
	return id
}
