package simplify

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/elementtree"
)

// propagateNotAllowedAndEmpty implements §4.C step 8: apply the
// algebraic identities bottom-up to a fixed point, also propagating a
// define that has collapsed to notAllowed out to every ref targeting
// it (since a further identity may now fire higher up), then fails if
// the grammar's start pattern itself reduced to notAllowed.
func propagateNotAllowedAndEmpty(grammarEl *elementtree.Node) error {
	for {
		changed := false
		for _, top := range elementChildren(grammarEl) {
			if top.URI != NS || (top.Local != elDefine && top.Local != elStart) {
				continue
			}
			if kids := elementChildren(top); len(kids) == 1 {
				if applyIdentities(kids[0]) {
					changed = true
				}
			}
		}

		notAllowedDefines := map[string]bool{}
		for _, d := range elementChildren(grammarEl) {
			if d.URI == NS && d.Local == elDefine {
				if kids := elementChildren(d); len(kids) == 1 && kids[0].Local == elNotAllowed {
					notAllowedDefines[d.AttributeValue("", atName)] = true
				}
			}
		}
		if len(notAllowedDefines) > 0 && replaceRefsWithNotAllowed(grammarEl, notAllowedDefines) {
			changed = true
		}
		if !changed {
			break
		}
	}

	start := findStartContent(grammarEl)
	if start != nil && start.URI == NS && start.Local == elNotAllowed {
		return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrNotAllowedStart, "grammar start pattern reduces to notAllowed", grammarEl.Path())}
	}
	return nil
}

// applyIdentities reduces n's subtree bottom-up and, if n's own pattern
// collapses, replaces n in its parent. It returns whether anything changed.
func applyIdentities(n *elementtree.Node) bool {
	changed := false
	for _, c := range elementChildren(n) {
		if applyIdentities(c) {
			changed = true
		}
	}
	if n.URI != NS {
		return changed
	}
	kids := elementChildren(n)

	switch n.Local {
	case elGroup:
		switch {
		case len(kids) == 2 && (kids[0].Local == elNotAllowed || kids[1].Local == elNotAllowed):
			_ = n.ReplaceWith(elementtree.NewElement("", elNotAllowed, NS))
			return true
		case len(kids) == 2 && kids[0].Local == elEmpty:
			_ = n.ReplaceWith(kids[1])
			return true
		case len(kids) == 2 && kids[1].Local == elEmpty:
			_ = n.ReplaceWith(kids[0])
			return true
		}
	case elInterleave:
		switch {
		case len(kids) == 2 && (kids[0].Local == elNotAllowed || kids[1].Local == elNotAllowed):
			_ = n.ReplaceWith(elementtree.NewElement("", elNotAllowed, NS))
			return true
		case len(kids) == 2 && kids[0].Local == elEmpty:
			_ = n.ReplaceWith(kids[1])
			return true
		case len(kids) == 2 && kids[1].Local == elEmpty:
			_ = n.ReplaceWith(kids[0])
			return true
		}
	case elChoice:
		switch {
		case len(kids) == 2 && kids[0].Local == elNotAllowed:
			_ = n.ReplaceWith(kids[1])
			return true
		case len(kids) == 2 && kids[1].Local == elNotAllowed:
			_ = n.ReplaceWith(kids[0])
			return true
		case len(kids) == 2 && kids[0].Local == elEmpty && kids[1].Local == elEmpty:
			_ = n.ReplaceWith(elementtree.NewElement("", elEmpty, NS))
			return true
		}
	case elOneOrMore, elList:
		if len(kids) == 1 && kids[0].Local == elNotAllowed {
			_ = n.ReplaceWith(elementtree.NewElement("", elNotAllowed, NS))
			return true
		}
	case elAttribute, elElement:
		if len(kids) == 2 && kids[1].Local == elNotAllowed {
			_ = n.ReplaceWith(elementtree.NewElement("", elNotAllowed, NS))
			return true
		}
	}
	return changed
}

func replaceRefsWithNotAllowed(n *elementtree.Node, names map[string]bool) bool {
	changed := false
	for _, c := range elementChildren(n) {
		if c.URI == NS && c.Local == elRef && names[c.AttributeValue("", atName)] {
			_ = c.ReplaceWith(elementtree.NewElement("", elNotAllowed, NS))
			changed = true
			continue
		}
		if replaceRefsWithNotAllowed(c, names) {
			changed = true
		}
	}
	return changed
}
