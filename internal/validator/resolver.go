// Package validator is the top-level grammar walker (§4.F): it drives the
// document event stream across internal/walker's per-pattern walkers,
// managing the frame stack, whitespace suspension, attribute-value
// swallowing, misplaced-element recovery, and XML namespace scoping.
package validator

const (
	xmlNamespace   = "http://www.w3.org/XML/1998/namespace"
	xmlnsNamespace = "http://www.w3.org/2000/xmlns/"
)

// NameResolver maps QName prefixes to namespace URIs across nested XML
// element scopes. The default implementation is a stack of prefix maps;
// callers may supply their own to plug in a different binding policy.
type NameResolver interface {
	EnterContext()
	LeaveContext()
	DefinePrefix(prefix, uri string)
	ResolveName(qname string, isAttribute bool) (ns, local string, ok bool)
	Clone() NameResolver
}

// defaultResolver implements NameResolver with the XML 1.0 rules plus the
// built-in xml/xmlns bindings, which are always in scope and cannot be
// rebound.
type defaultResolver struct {
	scopes []map[string]string
}

// NewDefaultResolver returns the default prefix resolver, seeded with the
// xml/xmlns built-in bindings.
func NewDefaultResolver() NameResolver {
	return &defaultResolver{scopes: []map[string]string{{
		"xml":   xmlNamespace,
		"xmlns": xmlnsNamespace,
	}}}
}

func (r *defaultResolver) EnterContext() {
	r.scopes = append(r.scopes, map[string]string{})
}

func (r *defaultResolver) LeaveContext() {
	if len(r.scopes) > 1 {
		r.scopes = r.scopes[:len(r.scopes)-1]
	}
}

func (r *defaultResolver) DefinePrefix(prefix, uri string) {
	if prefix == "xml" || prefix == "xmlns" {
		return
	}
	r.scopes[len(r.scopes)-1][prefix] = uri
}

func (r *defaultResolver) lookup(prefix string) (string, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if uri, ok := r.scopes[i][prefix]; ok {
			return uri, true
		}
	}
	return "", false
}

// ResolveName splits qname on ':' and resolves the prefix against the
// current scope stack. A prefix-less attribute resolves to no namespace;
// a prefix-less element name is left to the caller's own default-ns
// handling (expanded names for elements/attributes normally arrive
// already resolved from the XML event source; this exists for QName-
// valued text content the grammar walker's caller needs to expand).
func (r *defaultResolver) ResolveName(qname string, isAttribute bool) (ns, local string, ok bool) {
	idx := -1
	for i, c := range qname {
		if c == ':' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", qname, true
	}
	prefix, rest := qname[:idx], qname[idx+1:]
	uri, found := r.lookup(prefix)
	if !found {
		return "", "", false
	}
	return uri, rest, true
}

func (r *defaultResolver) Clone() NameResolver {
	scopes := make([]map[string]string, len(r.scopes))
	for i, s := range r.scopes {
		cp := make(map[string]string, len(s))
		for k, v := range s {
			cp[k] = v
		}
		scopes[i] = cp
	}
	return &defaultResolver{scopes: scopes}
}
