package simplify

import (
	"strings"

	"github.com/relaxng/rng/internal/elementtree"
)

// textContent concatenates the character data directly under n.
func textContent(n *elementtree.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.Kind == elementtree.Text {
			b.WriteString(c.TextContent)
		}
	}
	return b.String()
}

// elementChildren returns n's Element children, skipping every text
// node (including the whitespace-only ones the XML parser preserved).
func elementChildren(n *elementtree.Node) []*elementtree.Node {
	var out []*elementtree.Node
	for _, c := range n.Children {
		if c.Kind == elementtree.Element {
			out = append(out, c)
		}
	}
	return out
}

// stripInsignificantWhitespace removes pure-whitespace text nodes
// everywhere except under elements whose content is significant
// (name/param/value, whose text is real schema data).
func stripInsignificantWhitespace(n *elementtree.Node) {
	if n.Kind != elementtree.Element {
		return
	}
	preserveText := n.Local == elName || n.Local == elParam || n.Local == elValue
	if !preserveText {
		var kept []*elementtree.Node
		for _, c := range n.Children {
			if c.Kind == elementtree.Text && strings.TrimSpace(c.TextContent) == "" {
				continue
			}
			kept = append(kept, c)
		}
		n.Empty()
		for _, c := range kept {
			n.Append(c)
		}
	}
	for _, c := range elementChildren(n) {
		stripInsignificantWhitespace(c)
	}
}
