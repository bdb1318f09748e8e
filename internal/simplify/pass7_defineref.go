package simplify

import (
	"fmt"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/elementtree"
)

// normalizeDefineRef implements §4.C step 16 against a single, already
// flat grammar: every element not directly under a define is wrapped in
// a fresh define and replaced by a ref to it; every define whose body
// isn't an element is inlined at its reference sites; unreferenced
// defines are dropped.
func normalizeDefineRef(grammarEl *elementtree.Node, counter *int) error {
	wrapBareElements(nil, grammarEl, grammarEl, counter)
	if err := inlineNonElementDefines(grammarEl); err != nil {
		return err
	}
	dropUnreferenced(grammarEl)
	return nil
}

func wrapBareElements(parent, n, grammarEl *elementtree.Node, counter *int) {
	if n.Kind != elementtree.Element {
		return
	}
	isElement := n.URI == NS && n.Local == elElement
	directlyUnderDefine := parent != nil && parent.URI == NS && parent.Local == elDefine
	if isElement && !directlyUnderDefine {
		*counter++
		name := fmt.Sprintf("__%s-elt-%d", elementLocalLabel(n), *counter)

		define := elementtree.NewElement("", elDefine, NS)
		setAttr(define, atName, name)
		ref := elementtree.NewElement("", elRef, NS)
		setAttr(ref, atName, name)

		_ = n.ReplaceWith(ref)
		define.Append(n)
		grammarEl.Append(define)

		for _, c := range elementChildren(n) {
			wrapBareElements(n, c, grammarEl, counter)
		}
		return
	}
	for _, c := range elementChildren(n) {
		wrapBareElements(n, c, grammarEl, counter)
	}
}

func elementLocalLabel(n *elementtree.Node) string {
	kids := elementChildren(n)
	if len(kids) > 0 && kids[0].Local == elName {
		if s := textContent(kids[0]); s != "" {
			return s
		}
	}
	return "anon"
}

// inlineNonElementDefines replaces every ref to a define whose body is
// not an element with a clone of that body, recursively resolving
// chains of non-element defines within the same clone.
func inlineNonElementDefines(grammarEl *elementtree.Node) error {
	pool := map[string]*elementtree.Node{}
	for _, d := range elementChildren(grammarEl) {
		if d.URI != NS || d.Local != elDefine {
			continue
		}
		body := elementChildren(d)
		if len(body) == 1 && !(body[0].URI == NS && body[0].Local == elElement) {
			pool[d.AttributeValue("", atName)] = d
		}
	}
	if len(pool) == 0 {
		return nil
	}
	for name, d := range pool {
		if refsName(elementChildren(d)[0], name, pool, map[string]bool{}) {
			return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrIllegalSelfReference, fmt.Sprintf("define %q is illegally self-referential through a non-element definition", name), d.Path())}
		}
	}
	if err := inlineRefs(grammarEl, pool); err != nil {
		return err
	}
	for _, d := range pool {
		grammarEl.Remove(d)
	}
	return nil
}

func refsName(n *elementtree.Node, target string, pool map[string]*elementtree.Node, visiting map[string]bool) bool {
	if n.URI == NS && n.Local == elRef {
		ref := n.AttributeValue("", atName)
		if ref == target {
			return true
		}
		if d, ok := pool[ref]; ok && !visiting[ref] {
			visiting[ref] = true
			body := elementChildren(d)
			found := len(body) == 1 && refsName(body[0], target, pool, visiting)
			visiting[ref] = false
			return found
		}
		return false
	}
	for _, c := range elementChildren(n) {
		if refsName(c, target, pool, visiting) {
			return true
		}
	}
	return false
}

func inlineRefs(n *elementtree.Node, pool map[string]*elementtree.Node) error {
	for _, c := range append([]*elementtree.Node{}, n.Children...) {
		if c.Kind == elementtree.Element && c.URI == NS && c.Local == elRef {
			if d, ok := pool[c.AttributeValue("", atName)]; ok {
				clone := elementChildren(d)[0].Clone()
				if err := c.ReplaceWith(clone); err != nil {
					return err
				}
				if err := inlineRefs(clone, pool); err != nil {
					return err
				}
				continue
			}
		}
		if err := inlineRefs(c, pool); err != nil {
			return err
		}
	}
	return nil
}

// dropUnreferenced removes every define unreachable, via ref, from the
// grammar's start pattern.
func dropUnreferenced(grammarEl *elementtree.Node) {
	defines := map[string]*elementtree.Node{}
	for _, d := range elementChildren(grammarEl) {
		if d.URI == NS && d.Local == elDefine {
			defines[d.AttributeValue("", atName)] = d
		}
	}
	start := findStartContent(grammarEl)
	reachable := map[string]bool{}
	if start != nil {
		markReachable(start, defines, reachable)
	}
	for name, d := range defines {
		if !reachable[name] {
			grammarEl.Remove(d)
		}
	}
}

func markReachable(n *elementtree.Node, defines map[string]*elementtree.Node, reachable map[string]bool) {
	if n.URI == NS && n.Local == elRef {
		name := n.AttributeValue("", atName)
		if reachable[name] {
			return
		}
		reachable[name] = true
		if d, ok := defines[name]; ok {
			markReachable(d, defines, reachable)
		}
		return
	}
	for _, c := range elementChildren(n) {
		markReachable(c, defines, reachable)
	}
}
