package validator

import "github.com/relaxng/rng/internal/pattern"

// elementIndex maps an element's local name to every candidate Element
// pattern in the grammar whose name class can match it, used only for
// misplaced-element recovery (§4.F step 6). Wildcard name classes (an
// infinite ToArray) contribute no entries: recovery only ever offers a
// concrete, exactly-named candidate.
func buildElementIndex(g *pattern.Grammar) map[string][]*pattern.Element {
	index := map[string][]*pattern.Element{}
	for _, d := range g.Definitions {
		names, finite := d.Element.NameClass.ToArray()
		if !finite {
			continue
		}
		for _, n := range names {
			index[n.Local] = append(index[n.Local], d.Element)
		}
	}
	return index
}
