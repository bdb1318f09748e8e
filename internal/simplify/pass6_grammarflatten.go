package simplify

import (
	"fmt"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/elementtree"
)

// flattenGrammar implements §4.C step 6 plus the combine-semantics half
// of step 1 that pass 1 deliberately deferred: inline this grammar's
// own divs, merge same-named define/start siblings per their combine
// attribute, then promote and uniquely rename every nested <grammar>
// reachable from it (recursing into each before renaming it, so nested
// grammars-within-grammars are flattened bottom-up).
func flattenGrammar(n *elementtree.Node, counter *int, limits Limits) error {
	inlineDivs(n)
	if err := mergeCombine(n); err != nil {
		return err
	}
	if err := promoteNestedGrammars(n, n, counter, limits); err != nil {
		return err
	}
	return enforceDefineLimit(n, limits)
}

func promoteNestedGrammars(n, outerGrammar *elementtree.Node, counter *int, limits Limits) error {
	for _, c := range elementChildren(n) {
		if c.URI == NS && c.Local == elGrammar {
			if err := flattenGrammar(c, counter, limits); err != nil {
				return err
			}
			renameDefines(c, counter)
			for _, d := range elementChildren(c) {
				if d.URI == NS && d.Local == elDefine {
					outerGrammar.Append(d)
				}
			}
			start := findStartContent(c)
			if start == nil {
				return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "nested grammar has no start pattern", c.Path())}
			}
			if err := c.ReplaceWith(start); err != nil {
				return err
			}
			continue
		}
		if err := promoteNestedGrammars(c, outerGrammar, counter, limits); err != nil {
			return err
		}
	}
	return nil
}

// renameDefines gives every define directly under grammarEl a fresh,
// globally unique name and rewrites every ref within grammarEl (its
// start and its defines) that pointed at the old name.
func renameDefines(grammarEl *elementtree.Node, counter *int) {
	*counter++
	id := *counter
	rename := make(map[string]string)
	for _, d := range elementChildren(grammarEl) {
		if d.URI == NS && d.Local == elDefine {
			old := d.AttributeValue("", atName)
			fresh := fmt.Sprintf("__grammar%d-%s", id, old)
			rename[old] = fresh
			setAttr(d, atName, fresh)
		}
	}
	renameRefs(grammarEl, rename)
}

func renameRefs(n *elementtree.Node, rename map[string]string) {
	if n.URI == NS && n.Local == elRef {
		if fresh, ok := rename[n.AttributeValue("", atName)]; ok {
			setAttr(n, atName, fresh)
		}
	}
	for _, c := range elementChildren(n) {
		renameRefs(c, rename)
	}
}

func findStartContent(grammarEl *elementtree.Node) *elementtree.Node {
	for _, c := range elementChildren(grammarEl) {
		if c.URI == NS && c.Local == elStart {
			kids := elementChildren(c)
			if len(kids) == 1 {
				return kids[0]
			}
		}
	}
	return nil
}

func enforceDefineLimit(grammarEl *elementtree.Node, limits Limits) error {
	if limits.MaxGrammarDefines <= 0 {
		return nil
	}
	count := 0
	for _, c := range elementChildren(grammarEl) {
		if c.URI == NS && c.Local == elDefine {
			count++
		}
	}
	if count > limits.MaxGrammarDefines {
		return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, fmt.Sprintf("grammar defines %d rules, exceeding the configured limit of %d", count, limits.MaxGrammarDefines), grammarEl.Path())}
	}
	return nil
}

// mergeCombine folds every group of same-named top-level define/start
// siblings into one, combining their bodies with choice or interleave
// per their shared combine attribute.
func mergeCombine(grammarEl *elementtree.Node) error {
	defines := map[string][]*elementtree.Node{}
	var order []string
	var starts []*elementtree.Node
	for _, c := range elementChildren(grammarEl) {
		switch {
		case c.URI == NS && c.Local == elDefine:
			name := c.AttributeValue("", atName)
			if _, ok := defines[name]; !ok {
				order = append(order, name)
			}
			defines[name] = append(defines[name], c)
		case c.URI == NS && c.Local == elStart:
			starts = append(starts, c)
		}
	}

	for _, name := range order {
		group := defines[name]
		if len(group) == 1 {
			continue
		}
		combine, err := resolveCombine(group, rngerrors.ErrMultipleDefine)
		if err != nil {
			return err
		}
		merged := mergeGroup(group, combine, elDefine)
		setAttr(merged, atName, name)
		replaceGroupWithSingle(grammarEl, group, merged)
	}
	if len(starts) > 1 {
		combine, err := resolveCombine(starts, rngerrors.ErrMultipleStart)
		if err != nil {
			return err
		}
		merged := mergeGroup(starts, combine, elStart)
		replaceGroupWithSingle(grammarEl, starts, merged)
	}
	return nil
}

func resolveCombine(group []*elementtree.Node, code rngerrors.ErrorCode) (string, error) {
	combine := ""
	for _, g := range group {
		v := g.AttributeValue("", atCombine)
		if v == "" {
			return "", rngerrors.ValidationList{rngerrors.NewValidation(code, "multiple definitions with the same name require a combine attribute", g.Path())}
		}
		if v != elChoice && v != elInterleave {
			return "", rngerrors.ValidationList{rngerrors.NewValidation(code, fmt.Sprintf("combine attribute must be choice or interleave, got %q", v), g.Path())}
		}
		if combine == "" {
			combine = v
		} else if combine != v {
			return "", rngerrors.ValidationList{rngerrors.NewValidation(code, "conflicting combine attributes for the same name", g.Path())}
		}
	}
	return combine, nil
}

func mergeGroup(group []*elementtree.Node, combine, wrapperLocal string) *elementtree.Node {
	acc := wrapAsSingle(elementChildren(group[0]))
	for _, g := range group[1:] {
		wrapper := elementtree.NewElement("", combine, NS)
		wrapper.Append(acc)
		wrapper.Append(wrapAsSingle(elementChildren(g)))
		acc = wrapper
	}
	result := elementtree.NewElement("", wrapperLocal, NS)
	result.Append(acc)
	return result
}

func replaceGroupWithSingle(grammarEl *elementtree.Node, group []*elementtree.Node, merged *elementtree.Node) {
	_ = group[0].ReplaceWith(merged)
	for _, g := range group[1:] {
		grammarEl.Remove(g)
	}
}
