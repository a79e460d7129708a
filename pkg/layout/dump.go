package layout

import (
	"fmt"
	"io"
	"strings"

	"boxtree/pkg/html"
)

// Dump writes one line per box, indented by depth:
//
//	<p> block pos=(0.0,0.0) size=(590.0x20.0)
//	  TEXT("hello") text pos=(0.0,0.0) size=(40.0x20.0)
func (v *View) Dump(w io.Writer) error {
	var err error
	v.Walk(func(id BoxID, depth int) bool {
		if err != nil {
			return false
		}
		box := v.Box(id)
		size, _ := box.Size()
		pos, _ := box.Position()
		_, err = fmt.Fprintf(w, "%s%s %s pos=(%.1f,%.1f) size=(%.1fx%.1f)\n",
			strings.Repeat("  ", depth), describe(box.Node()), box.Kind(),
			pos.X, pos.Y, size.Width, size.Height)
		return err == nil
	})
	return err
}

func describe(n *html.Node) string {
	if n == nil {
		return "?"
	}
	if n.Type == html.TextNode {
		t := n.Text
		if len(t) > 20 {
			return fmt.Sprintf("TEXT(%q...)", t[:20])
		}
		return fmt.Sprintf("TEXT(%q)", t)
	}
	return "<" + n.TagName + ">"
}
