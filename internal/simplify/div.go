package simplify

import "github.com/relaxng/rng/internal/elementtree"

// inlineDivs replaces every div descendant of n with its own children,
// bottom-up, so later passes never have to look through div wrappers.
// div carries no semantics beyond grouping and an optional ns/datatypeLibrary
// default that passes 2-4 have already pushed down onto its children by
// the time this runs.
func inlineDivs(n *elementtree.Node) {
	for _, c := range elementChildren(n) {
		inlineDivs(c)
	}
	for _, c := range append([]*elementtree.Node{}, n.Children...) {
		if c.Kind == elementtree.Element && c.URI == NS && c.Local == elDiv {
			idx, err := n.IndexOfChild(c)
			if err != nil {
				continue
			}
			for i, gc := range append([]*elementtree.Node{}, c.Children...) {
				n.Insert(idx+i, gc)
			}
			n.Remove(c)
		}
	}
}
