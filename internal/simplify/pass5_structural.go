package simplify

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/elementtree"
)

const reservedXMLNSURI = "http://www.w3.org/2000/xmlns/"

// applyStructuralRewrites implements §4.C step 10, bottom-up so that a
// rewrite's own newly-synthesized children (e.g. zeroOrMore's oneOrMore)
// never need a second pass.
func applyStructuralRewrites(n *elementtree.Node) error {
	for _, c := range elementChildren(n) {
		if err := applyStructuralRewrites(c); err != nil {
			return err
		}
	}
	if n.Kind != elementtree.Element || n.URI != NS {
		return nil
	}

	switch n.Local {
	case elChoice, elGroup, elInterleave:
		foldBinary(n)
	case elElement:
		wrapTrailingInGroup(n, 2)
	case elAttribute:
		wrapTrailingInGroup(n, 2)
		if len(elementChildren(n)) == 1 {
			n.Append(elementtree.NewElement("", elText, NS))
		}
		if err := checkReservedAttributeName(n); err != nil {
			return err
		}
	case elDefine, elOneOrMore, elList:
		if kids := elementChildren(n); len(kids) > 1 {
			single := wrapAsSingle(kids)
			n.Empty()
			n.Append(single)
		}
	case elZeroOrMore:
		rewriteZeroOrMore(n)
	case elOptional:
		rewriteOptional(n)
	case elMixed:
		rewriteMixed(n)
	case elExcept:
		foldExceptChildrenIntoChoice(n)
	}
	return nil
}

// foldBinary left-folds a >2-child choice/group/interleave into nested
// binary nodes of the same kind, and unwraps a single-child one entirely.
func foldBinary(n *elementtree.Node) {
	kids := elementChildren(n)
	switch {
	case len(kids) == 1:
		_ = n.ReplaceWith(kids[0])
	case len(kids) > 2:
		acc := kids[0]
		for _, k := range kids[1 : len(kids)-1] {
			wrapper := elementtree.NewElement("", n.Local, NS)
			wrapper.Append(acc)
			wrapper.Append(k)
			acc = wrapper
		}
		last := kids[len(kids)-1]
		n.Empty()
		n.Append(acc)
		n.Append(last)
	}
}

// wrapTrailingInGroup wraps every child after the (keep-1)'th into a
// single <group>, leaving the first keep-1 children untouched.
func wrapTrailingInGroup(n *elementtree.Node, keep int) {
	kids := elementChildren(n)
	if len(kids) <= keep {
		return
	}
	group := elementtree.NewElement("", elGroup, NS)
	for _, k := range kids[keep-1:] {
		group.Append(k)
	}
	foldBinary(group)
	if keep == 1 {
		n.Empty()
		n.Append(group)
		return
	}
	head := kids[:keep-1]
	n.Empty()
	for _, k := range head {
		n.Append(k)
	}
	n.Append(group)
}

// wrapAsSingle detaches kids from their current parent and returns them
// as one pattern node: the lone child itself if there is exactly one,
// else a fresh <group> wrapping all of them in order.
func wrapAsSingle(kids []*elementtree.Node) *elementtree.Node {
	if len(kids) == 1 {
		return kids[0]
	}
	group := elementtree.NewElement("", elGroup, NS)
	for _, k := range kids {
		group.Append(k)
	}
	foldBinary(group)
	return group
}

func foldExceptChildrenIntoChoice(n *elementtree.Node) {
	kids := elementChildren(n)
	if len(kids) <= 1 {
		return
	}
	acc := kids[0]
	for _, k := range kids[1:] {
		wrapper := elementtree.NewElement("", elChoice, NS)
		wrapper.Append(acc)
		wrapper.Append(k)
		acc = wrapper
	}
	n.Empty()
	n.Append(acc)
}

func rewriteZeroOrMore(n *elementtree.Node) {
	oneOrMore := elementtree.NewElement("", elOneOrMore, NS)
	oneOrMore.Append(wrapAsSingle(elementChildren(n)))
	choice := elementtree.NewElement("", elChoice, NS)
	choice.Append(oneOrMore)
	choice.Append(elementtree.NewElement("", elEmpty, NS))
	_ = n.ReplaceWith(choice)
}

func rewriteOptional(n *elementtree.Node) {
	choice := elementtree.NewElement("", elChoice, NS)
	choice.Append(wrapAsSingle(elementChildren(n)))
	choice.Append(elementtree.NewElement("", elEmpty, NS))
	_ = n.ReplaceWith(choice)
}

func rewriteMixed(n *elementtree.Node) {
	result := elementtree.NewElement("", elInterleave, NS)
	result.Append(wrapAsSingle(elementChildren(n)))
	result.Append(elementtree.NewElement("", elText, NS))
	_ = n.ReplaceWith(result)
}

func checkReservedAttributeName(n *elementtree.Node) error {
	kids := elementChildren(n)
	if len(kids) == 0 {
		return nil
	}
	nameClass := kids[0]
	if nameClass.Local == elName && nameClass.AttributeValue("", atNs) == reservedXMLNSURI {
		return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrReservedAttributeName, "attribute name may not be in the xmlns namespace", n.Path())}
	}
	return nil
}

