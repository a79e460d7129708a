package layout

import "boxtree/pkg/html"

// builder mirrors a document subtree into a Tree.
type builder struct {
	tree     *Tree
	resolver StyleResolver
	skipped  int // nodes that generated no box themselves
}

// buildRun builds boxes for the sibling run that starts at node and returns
// the first of them, or NoBox when no node in the run renders. Every box in
// the run gets parent as its parent.
//
// Nodes that do not classify are stepped over without looking at their
// children, so a display:none element hides its whole subtree whatever the
// display of its descendants. The run is walked with a loop and only the
// descent into children recurses, so stack depth follows document depth,
// not sibling count.
func (b *builder) buildRun(node *html.Node, parent BoxID) BoxID {
	first, prev := NoBox, NoBox
	for n := node; n != nil; n = n.NextSibling() {
		seed, ok := Classify(n, b.resolver)
		if !ok {
			b.skipped++
			continue
		}

		id := b.tree.add(seed, n, parent)
		if prev == NoBox {
			first = id
		} else {
			b.tree.Box(prev).nextSibling = id
		}

		// The recursive call grows the arena, so the box is addressed
		// again after it returns.
		child := b.buildRun(n.FirstChild(), id)
		b.tree.Box(id).firstChild = child
		prev = id
	}
	return first
}
