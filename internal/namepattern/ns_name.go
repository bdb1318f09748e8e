package namepattern

// nsName matches any local name in ns, minus an optional except pattern.
// By Relax NG rules except may only contain Name/NsName/NameChoice of
// those variants.
type nsName struct {
	ns     string
	except Pattern // nil means no exception
}

func (n *nsName) Match(ns, local string) bool {
	if n.ns != ns {
		return false
	}
	if n.except != nil && n.except.Match(ns, local) {
		return false
	}
	return true
}

func (n *nsName) WildcardMatch(ns, local string) bool {
	return n.Match(ns, local)
}

func (n *nsName) Intersects(other Pattern) bool {
	_, ok := n.Intersection(other)
	return ok
}

// Intersection implements the cases from spec §4.A: intersecting with an
// exact Name, with another NsName (same-namespace exception merge), and
// falling back to the generic other-drives-the-match case for AnyName and
// choices (handled by their own Intersection).
func (n *nsName) Intersection(other Pattern) (Pattern, bool) {
	switch o := other.(type) {
	case *exactName:
		if n.ns != o.ns {
			return nil, false
		}
		if n.except != nil && n.except.Match(o.ns, o.local) {
			return nil, false
		}
		return o, true
	case *nsName:
		if n.ns != o.ns {
			return nil, false
		}
		merged := unionExcept(n.except, o.except)
		return NsNameOf(n.ns, merged), true
	case *choice:
		return intersectChoice(n, o)
	case *anyName:
		return o.Intersection(n)
	default:
		return nil, false
	}
}

func (n *nsName) ToArray() ([]Name, bool) {
	return nil, false
}

func (n *nsName) Namespaces() map[string]struct{} {
	out := map[string]struct{}{n.ns: {}}
	if n.except != nil {
		out[HasException] = struct{}{}
	}
	return out
}

func (n *nsName) Equal(other Pattern) bool {
	o, ok := other.(*nsName)
	if !ok || o.ns != n.ns {
		return false
	}
	if n.except == nil || o.except == nil {
		return n.except == nil && o.except == nil
	}
	return n.except.Equal(o.except)
}

func (n *nsName) String() string {
	if n.except == nil {
		return "nsName(" + n.ns + ")"
	}
	return "nsName(" + n.ns + " - " + n.except.String() + ")"
}

// Subtract implements NsName.subtract(x) from spec §4.A: defined only
// where x is a Name, NsName or a NameChoice of those. Returns (nil, true)
// for the empty-pattern result (not-allowed), or (nil, false) if x is an
// operand subtraction does not support.
func (n *nsName) Subtract(x Pattern) (Pattern, bool) {
	switch o := x.(type) {
	case *choice:
		left, leftOK := n.Subtract(o.a)
		if !leftOK {
			return nil, false
		}
		if left == nil {
			return nil, true
		}
		ln, ok := left.(*nsName)
		if !ok {
			return subtractNamePattern(left, o.b)
		}
		return ln.Subtract(o.b)
	case *exactName:
		if n.ns != o.ns {
			return n, true
		}
		return NsNameOf(n.ns, unionExcept(n.except, o)), true
	case *nsName:
		if n.ns != o.ns {
			return n, true
		}
		if o.except == nil {
			return nil, true
		}
		// "other.except \ this.except" (note direction): the result is
		// the names other's exception keeps out that this pattern's own
		// exception does not; nil means no name is left.
		if n.except == nil {
			return o.except, true
		}
		diff, ok := subtractNamePattern(o.except, n.except)
		if !ok {
			return nil, false
		}
		return diff, true
	default:
		return nil, false
	}
}

// unionExcept merges two (possibly nil) except patterns by unioning their
// finite name lists, matching spec §4.A's NsName.intersection(NsName)
// exception-merge rule.
func unionExcept(a, b Pattern) Pattern {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return b
	case b == nil:
		return a
	}
	aNames, aOK := a.ToArray()
	bNames, bOK := b.ToArray()
	if aOK && bOK {
		return namesToChoice(append(append([]Name{}, aNames...), bNames...))
	}
	return Choice(a, b)
}

// subtractNamePattern removes every name matched by b from the finite
// pattern a (used for except-list subtraction); ok is false when a is not
// finite.
func subtractNamePattern(a, b Pattern) (Pattern, bool) {
	names, ok := a.ToArray()
	if !ok {
		return nil, false
	}
	kept := make([]Name, 0, len(names))
	for _, nm := range names {
		if !b.Match(nm.NS, nm.Local) {
			kept = append(kept, nm)
		}
	}
	return namesToChoice(kept), true
}

func intersectChoice(p Pattern, c *choice) (Pattern, bool) {
	ai, aok := p.Intersection(c.a)
	bi, bok := p.Intersection(c.b)
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
