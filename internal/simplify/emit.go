package simplify

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/pattern"
)

// emit converts the canonical, flattened grammar element into the
// runtime pattern model (§4.C step 9), then links it with Prepare.
func emit(grammarEl *elementtree.Node) (*pattern.Grammar, error) {
	start := findStartContent(grammarEl)
	if start == nil {
		return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "grammar has no start pattern", grammarEl.Path())}
	}
	startPattern, err := buildPattern(start)
	if err != nil {
		return nil, err
	}

	defs := map[string]*pattern.Define{}
	for _, d := range elementChildren(grammarEl) {
		if d.URI != NS || d.Local != elDefine {
			continue
		}
		body := elementChildren(d)
		if len(body) != 1 || body[0].Local != elElement {
			return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "every surviving define must wrap exactly one element after step 16", d.Path())}
		}
		el, err := buildPattern(body[0])
		if err != nil {
			return nil, err
		}
		name := d.AttributeValue("", atName)
		defs[name] = &pattern.Define{Name: name, Element: el.(*pattern.Element)}
	}

	g := &pattern.Grammar{Start: startPattern, Definitions: defs}
	if err := g.Prepare(); err != nil {
		return nil, err
	}
	return g, nil
}

func buildPattern(n *elementtree.Node) (pattern.Pattern, error) {
	if n.URI != NS {
		return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "unexpected non-RELAX-NG element in canonical tree", n.Path())}
	}
	switch n.Local {
	case elEmpty:
		return pattern.Empty{}, nil
	case elNotAllowed:
		return pattern.NotAllowed{}, nil
	case elText:
		return pattern.Text{}, nil
	case elData:
		return buildData(n)
	case elValue:
		return buildValue(n), nil
	case elChoice:
		return buildBinary(n, func(a, b pattern.Pattern) pattern.Pattern { return &pattern.Choice{A: a, B: b} })
	case elGroup:
		return buildBinary(n, func(a, b pattern.Pattern) pattern.Pattern { return &pattern.Group{A: a, B: b} })
	case elInterleave:
		return buildBinary(n, func(a, b pattern.Pattern) pattern.Pattern { return &pattern.Interleave{A: a, B: b} })
	case elOneOrMore:
		kids := elementChildren(n)
		p, err := buildPattern(kids[0])
		if err != nil {
			return nil, err
		}
		return &pattern.OneOrMore{P: p}, nil
	case elList:
		kids := elementChildren(n)
		p, err := buildPattern(kids[0])
		if err != nil {
			return nil, err
		}
		return &pattern.List{P: p}, nil
	case elAttribute:
		return buildAttributeOrElement(n, true)
	case elElement:
		return buildAttributeOrElement(n, false)
	case elRef:
		return &pattern.Ref{Name: n.AttributeValue("", atName)}, nil
	default:
		return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "unexpected pattern element in canonical tree: "+n.Local, n.Path())}
	}
}

func buildBinary(n *elementtree.Node, make func(a, b pattern.Pattern) pattern.Pattern) (pattern.Pattern, error) {
	kids := elementChildren(n)
	if len(kids) != 2 {
		return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, n.Local+" must have exactly two children after structural rewrites", n.Path())}
	}
	a, err := buildPattern(kids[0])
	if err != nil {
		return nil, err
	}
	b, err := buildPattern(kids[1])
	if err != nil {
		return nil, err
	}
	return make(a, b), nil
}

func buildAttributeOrElement(n *elementtree.Node, isAttribute bool) (pattern.Pattern, error) {
	kids := elementChildren(n)
	if len(kids) != 2 {
		return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, n.Local+" must have exactly a name class and a content pattern after structural rewrites", n.Path())}
	}
	nc, err := buildNameClass(kids[0])
	if err != nil {
		return nil, err
	}
	content, err := buildPattern(kids[1])
	if err != nil {
		return nil, err
	}
	if isAttribute {
		return &pattern.Attribute{NameClass: nc, P: content}, nil
	}
	return &pattern.Element{NameClass: nc, P: content}, nil
}

func buildData(n *elementtree.Node) (pattern.Pattern, error) {
	d := &pattern.Data{
		DatatypeLibrary: n.AttributeValue("", atDatatypeLibrary),
		Datatype:        n.AttributeValue("", atType),
	}
	for _, c := range elementChildren(n) {
		switch c.Local {
		case elParam:
			d.Params = append(d.Params, pattern.Param{Name: c.AttributeValue("", atName), Value: textContent(c)})
		case elExcept:
			kids := elementChildren(c)
			if len(kids) != 1 {
				return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "data except must wrap exactly one pattern after structural rewrites", c.Path())}
			}
			except, err := buildPattern(kids[0])
			if err != nil {
				return nil, err
			}
			d.Except = except
		}
	}
	return d, nil
}

func buildValue(n *elementtree.Node) pattern.Pattern {
	datatype := n.AttributeValue("", atType)
	if datatype == "" {
		datatype = "token"
	}
	return &pattern.Value{
		DatatypeLibrary: n.AttributeValue("", atDatatypeLibrary),
		Datatype:        datatype,
		Value:           textContent(n),
		NS:              n.AttributeValue("", atNs),
	}
}
