package layout

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html/atom"

	"boxtree/pkg/css"
	"boxtree/pkg/html"
	"boxtree/pkg/text"
)

const (
	// WindowWidth is the width of the browser window in pixels.
	WindowWidth = 600.0
	// WindowPadding is the padding on each side of the content area.
	WindowPadding = 5.0
	// ContentAreaWidth is the width available to the box tree root.
	ContentAreaWidth = WindowWidth - 2*WindowPadding
)

// View is the result of laying out one document: an immutable box tree
// with every box sized and positioned.
type View struct {
	tree *Tree
	root BoxID
}

type options struct {
	contentWidth float64
	measurer     text.Measurer
	logger       *log.Logger
}

// Option configures NewView.
type Option func(*options)

// WithContentWidth sets the width passed to the root of the size pass.
func WithContentWidth(w float64) Option {
	return func(o *options) {
		if w > 0 {
			o.contentWidth = w
		}
	}
}

// WithMeasurer sets the text measurer. The default is a FixedMeasurer.
func WithMeasurer(m text.Measurer) Option {
	return func(o *options) {
		if m != nil {
			o.measurer = m
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewView lays out the document rooted at root. The children of the first
// <body> element become the top-level boxes; body itself only anchors
// them. A document without a body, or whose body renders nothing, yields
// an empty view. A nil resolver resolves against user-agent styles only.
func NewView(root *html.Node, resolver StyleResolver, opts ...Option) *View {
	o := options{
		contentWidth: ContentAreaWidth,
		measurer:     text.FixedMeasurer{},
		logger:       log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if resolver == nil {
		resolver = css.NewCascade()
	}

	v := &View{tree: &Tree{}, root: NoBox}
	body := html.FindElement(root, atom.Body)
	if body == nil {
		o.logger.Debug("no body element, layout is empty")
		return v
	}

	start := time.Now()
	b := &builder{tree: v.tree, resolver: resolver}
	v.root = b.buildRun(body.FirstChild(), NoBox)
	o.logger.Debug("built box tree", "boxes", v.tree.Len(), "skipped", b.skipped)

	g := &geometry{tree: v.tree, measurer: o.measurer}
	g.sizePass(v.root, o.contentWidth)
	g.positionPass(v.root, Point{})
	o.logger.Debug("layout done", "width", o.contentWidth, "elapsed", time.Since(start))
	return v
}

// Root returns the first top-level box, or NoBox for an empty view. Further
// top-level boxes follow it through NextSibling.
func (v *View) Root() BoxID { return v.root }

// Empty reports whether the view has no boxes.
func (v *View) Empty() bool { return v.root == NoBox }

// Box returns the box addressed by id.
func (v *View) Box(id BoxID) *Box { return v.tree.Box(id) }

// Len returns the number of boxes.
func (v *View) Len() int { return v.tree.Len() }

// Children returns the IDs of id's children in order.
func (v *View) Children(id BoxID) []BoxID { return v.tree.Children(id) }

// Walk calls fn for every box in document order with its depth below the
// top level. Returning false from fn skips the box's children.
func (v *View) Walk(fn func(id BoxID, depth int) bool) {
	var walk func(id BoxID, depth int)
	walk = func(id BoxID, depth int) {
		for ; id != NoBox; id = v.tree.Box(id).nextSibling {
			if fn(id, depth) {
				walk(v.tree.Box(id).firstChild, depth+1)
			}
		}
	}
	walk(v.root, 0)
}
