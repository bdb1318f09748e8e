package namepattern

// exactName matches exactly one expanded name.
type exactName struct {
	ns    string
	local string
}

func (n *exactName) Match(ns, local string) bool {
	return n.ns == ns && n.local == local
}

func (n *exactName) WildcardMatch(ns, local string) bool {
	return false
}

func (n *exactName) Intersects(other Pattern) bool {
	return other.Match(n.ns, n.local)
}

func (n *exactName) Intersection(other Pattern) (Pattern, bool) {
	if other.Match(n.ns, n.local) {
		return n, true
	}
	return nil, false
}

func (n *exactName) ToArray() ([]Name, bool) {
	return []Name{{NS: n.ns, Local: n.local}}, true
}

func (n *exactName) Namespaces() map[string]struct{} {
	return map[string]struct{}{n.ns: {}}
}

func (n *exactName) Equal(other Pattern) bool {
	o, ok := other.(*exactName)
	return ok && o.ns == n.ns && o.local == n.local
}

func (n *exactName) String() string {
	return "{" + n.ns + "}" + n.local
}

// choice is the union of two name patterns; trees of choice values
// represent arbitrary finite unions.
type choice struct {
	a, b Pattern
}

func (c *choice) Match(ns, local string) bool {
	return c.a.Match(ns, local) || c.b.Match(ns, local)
}

func (c *choice) WildcardMatch(ns, local string) bool {
	if c.a.Match(ns, local) {
		return c.a.WildcardMatch(ns, local)
	}
	if c.b.Match(ns, local) {
		return c.b.WildcardMatch(ns, local)
	}
	return false
}

func (c *choice) Intersects(other Pattern) bool {
	return c.a.Intersects(other) || c.b.Intersects(other)
}

func (c *choice) Intersection(other Pattern) (Pattern, bool) {
	ai, aok := c.a.Intersection(other)
	bi, bok := c.b.Intersection(other)
	switch {
	case aok && bok:
		return Choice(ai, bi), true
	case aok:
		return ai, true
	case bok:
		return bi, true
	default:
		return nil, false
	}
}

func (c *choice) ToArray() ([]Name, bool) {
	aa, aok := c.a.ToArray()
	if !aok {
		return nil, false
	}
	bb, bok := c.b.ToArray()
	if !bok {
		return nil, false
	}
	return append(append([]Name{}, aa...), bb...), true
}

func (c *choice) Namespaces() map[string]struct{} {
	out := c.a.Namespaces()
	for k := range c.b.Namespaces() {
		out[k] = struct{}{}
	}
	return out
}

func (c *choice) Equal(other Pattern) bool {
	o, ok := other.(*choice)
	if !ok {
		return false
	}
	return (c.a.Equal(o.a) && c.b.Equal(o.b)) || (c.a.Equal(o.b) && c.b.Equal(o.a))
}

func (c *choice) String() string {
	return "(" + c.a.String() + " | " + c.b.String() + ")"
}
