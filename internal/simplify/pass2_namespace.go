package simplify

import (
	"strings"

	"github.com/relaxng/rng/internal/elementtree"
)

// nsContext tracks the inherited ns/datatypeLibrary defaults a node's
// own attributes may override for itself and its descendants.
type nsContext struct {
	ns    string
	dtLib string
}

// normalizeNamespaces folds §4.C passes 2-4 into one walk: it resolves
// the name="foo" shorthand into an explicit <name> child, lifts the
// inherited ns default onto every name/nsName/anyName it finds, splits
// QName shorthands against the node's in-scope xmlns bindings, and
// propagates datatypeLibrary onto every data/value.
func normalizeNamespaces(n *elementtree.Node, ctx nsContext) {
	if n.Kind != elementtree.Element {
		return
	}
	if v := n.AttributeValue("", atNs); v != "" {
		ctx.ns = v
	}
	if v := n.AttributeValue("", atDatatypeLibrary); v != "" {
		ctx.dtLib = v
	}

	switch {
	case n.URI == NS && (n.Local == elElement || n.Local == elAttribute):
		convertNameShorthand(n, ctx)
	case n.URI == NS && (n.Local == elName || n.Local == elNsName || n.Local == elAnyName):
		normalizeNameClassNS(n, ctx)
	case n.URI == NS && (n.Local == elData || n.Local == elValue):
		if n.AttributeValue("", atDatatypeLibrary) == "" {
			setAttr(n, atDatatypeLibrary, ctx.dtLib)
		}
		if n.Local == elValue && n.AttributeValue("", atNs) == "" {
			setAttr(n, atNs, ctx.ns)
		}
	}

	for _, c := range elementChildren(n) {
		normalizeNamespaces(c, ctx)
	}
}

// convertNameShorthand turns name="foo" (or "prefix:foo") on an
// element/attribute into an explicit <name> child, per §4.C step 3.
func convertNameShorthand(n *elementtree.Node, ctx nsContext) {
	raw := n.AttributeValue("", atName)
	if raw == "" {
		return
	}
	ns, local := resolveQName(n, raw, ctx.ns)
	nameEl := elementtree.NewElement("", elName, NS)
	setAttr(nameEl, atNs, ns)
	nameEl.Append(elementtree.NewText(local))
	n.Prepend(nameEl)
	n.RemoveAttribute(elementtree.AttrName{Local: atName})
}

// normalizeNameClassNS ensures name/nsName/anyName carry an explicit ns
// attribute, resolving a QName-valued <name> against xmlns scope first.
func normalizeNameClassNS(n *elementtree.Node, ctx nsContext) {
	if n.Local == elName {
		raw := strings.TrimSpace(textContent(n))
		explicit := n.AttributeValue("", atNs)
		fallback := ctx.ns
		if explicit != "" {
			fallback = explicit
		}
		ns, local := resolveQName(n, raw, fallback)
		setAttr(n, atNs, ns)
		n.Empty()
		n.Append(elementtree.NewText(local))
		return
	}
	if n.AttributeValue("", atNs) == "" {
		setAttr(n, atNs, ctx.ns)
	}
}

// resolveQName splits raw on ':' and resolves the prefix via n's
// in-scope xmlns bindings; with no prefix it returns fallbackNS.
func resolveQName(n *elementtree.Node, raw, fallbackNS string) (ns, local string) {
	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		return fallbackNS, raw
	}
	prefix, rest := raw[:idx], raw[idx+1:]
	if resolved, ok := n.ResolvePrefix(prefix); ok {
		return resolved, rest
	}
	return fallbackNS, rest
}

func setAttr(n *elementtree.Node, local, value string) {
	n.SetAttribute(elementtree.AttrName{Local: local}, &elementtree.Attribute{Local: local, Value: value})
}
