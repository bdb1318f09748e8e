package simplify

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/namepattern"
)

// buildNameClass converts a name/nsName/anyName/choice-of-those subtree
// (already ns-normalized by normalizeNamespaces) into a namepattern.Pattern.
func buildNameClass(n *elementtree.Node) (namepattern.Pattern, error) {
	switch {
	case n.Local == elName:
		return namepattern.NameOf(n.AttributeValue("", atNs), textContent(n)), nil
	case n.Local == elNsName:
		except, err := buildExcept(n, false)
		if err != nil {
			return nil, err
		}
		return namepattern.NsNameOf(n.AttributeValue("", atNs), except), nil
	case n.Local == elAnyName:
		except, err := buildExcept(n, true)
		if err != nil {
			return nil, err
		}
		return namepattern.AnyNameOf(except), nil
	case n.Local == elChoice:
		kids := elementChildren(n)
		if len(kids) != 2 {
			return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "name choice must have exactly two children after structural rewrites", n.Path())}
		}
		a, err := buildNameClass(kids[0])
		if err != nil {
			return nil, err
		}
		b, err := buildNameClass(kids[1])
		if err != nil {
			return nil, err
		}
		return namepattern.Choice(a, b), nil
	default:
		return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "expected a name class element", n.Path())}
	}
}

// buildExcept locates the optional <except> child of an nsName/anyName
// and, per §4.C step 10's static check, rejects illegal nesting: an
// nsName's except may only contain name/choice-of-names; an anyName's
// except may additionally contain nsName (whose own except is in turn
// limited to names), but never another anyName.
func buildExcept(n *elementtree.Node, allowNsName bool) (namepattern.Pattern, error) {
	for _, c := range elementChildren(n) {
		if c.Local != elExcept {
			continue
		}
		kids := elementChildren(c)
		if len(kids) != 1 {
			return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "except must wrap exactly one name class after structural rewrites", c.Path())}
		}
		if err := checkExceptNesting(kids[0], allowNsName); err != nil {
			return nil, err
		}
		return buildNameClass(kids[0])
	}
	return nil, nil
}

func checkExceptNesting(n *elementtree.Node, allowNsName bool) error {
	switch n.Local {
	case elName:
		return nil
	case elNsName:
		if allowNsName {
			return nil
		}
		return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrInvalidExceptNesting, "nsName except may only contain name", n.Path())}
	case elChoice:
		for _, c := range elementChildren(n) {
			if err := checkExceptNesting(c, allowNsName); err != nil {
				return err
			}
		}
		return nil
	default:
		return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrInvalidExceptNesting, "anyName/nsName except may only contain name or nsName", n.Path())}
	}
}
