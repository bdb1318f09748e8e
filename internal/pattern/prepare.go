package pattern

import (
	"fmt"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
)

// Prepare is the one-time link step run after the simplifier builds the
// Grammar: it resolves every Ref to its Define (raising ErrUnresolvedRef
// on a miss) and records every namespace mentioned anywhere in the
// pattern tree on g.Namespaces.
func (g *Grammar) Prepare() error {
	g.Namespaces = make(map[string]struct{})
	visited := make(map[*Define]bool)
	if err := prepare(g.Start, g.Definitions, g.Namespaces, visited); err != nil {
		return err
	}
	for _, d := range g.Definitions {
		if err := prepare(d.Element, g.Definitions, g.Namespaces, visited); err != nil {
			return err
		}
	}
	return nil
}

func prepare(p Pattern, defs map[string]*Define, namespaces map[string]struct{}, visited map[*Define]bool) error {
	switch n := p.(type) {
	case nil, Empty, NotAllowed, Text:
		return nil
	case *Data:
		if n.Except != nil {
			return prepare(n.Except, defs, namespaces, visited)
		}
		return nil
	case *Value:
		if n.NS != "" {
			namespaces[n.NS] = struct{}{}
		}
		return nil
	case *Choice:
		if err := prepare(n.A, defs, namespaces, visited); err != nil {
			return err
		}
		return prepare(n.B, defs, namespaces, visited)
	case *Group:
		if err := prepare(n.A, defs, namespaces, visited); err != nil {
			return err
		}
		return prepare(n.B, defs, namespaces, visited)
	case *Interleave:
		if err := prepare(n.A, defs, namespaces, visited); err != nil {
			return err
		}
		return prepare(n.B, defs, namespaces, visited)
	case *OneOrMore:
		return prepare(n.P, defs, namespaces, visited)
	case *List:
		return prepare(n.P, defs, namespaces, visited)
	case *Attribute:
		recordNameClassNamespaces(n.NameClass, namespaces)
		return prepare(n.P, defs, namespaces, visited)
	case *Element:
		recordNameClassNamespaces(n.NameClass, namespaces)
		return prepare(n.P, defs, namespaces, visited)
	case *Ref:
		def, ok := defs[n.Name]
		if !ok {
			return rngerrors.ValidationList{
				rngerrors.NewValidation(rngerrors.ErrUnresolvedRef, fmt.Sprintf("%s cannot be resolved", n.Name), ""),
			}
		}
		n.resolved = def
		if visited[def] {
			return nil
		}
		visited[def] = true
		return prepare(def.Element, defs, namespaces, visited)
	case *Define:
		return prepare(n.Element, defs, namespaces, visited)
	default:
		return fmt.Errorf("pattern: prepare: unknown pattern kind %T", p)
	}
}

func recordNameClassNamespaces(nc namepattern.Pattern, namespaces map[string]struct{}) {
	if nc == nil {
		return
	}
	for ns := range nc.Namespaces() {
		namespaces[ns] = struct{}{}
	}
}
