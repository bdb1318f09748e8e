package namepattern

// anyName matches any expanded name, minus an optional except pattern.
type anyName struct {
	except Pattern // nil means no exception
}

func (n *anyName) Match(ns, local string) bool {
	if n.except != nil && n.except.Match(ns, local) {
		return false
	}
	return true
}

func (n *anyName) WildcardMatch(ns, local string) bool {
	return n.Match(ns, local)
}

func (n *anyName) Intersects(other Pattern) bool {
	_, ok := n.Intersection(other)
	return ok
}

// Intersection implements spec §4.A's AnyName.intersection(other) cases.
func (n *anyName) Intersection(other Pattern) (Pattern, bool) {
	switch o := other.(type) {
	case *choice:
		return intersectChoice(n, o)
	case *exactName:
		if n.except != nil && n.except.Match(o.ns, o.local) {
			return nil, false
		}
		return o, true
	case *nsName:
		if n.except == nil {
			return o, true
		}
		reduced, ok := o.Subtract(n.except)
		if !ok || reduced == nil {
			return nil, false
		}
		return reduced, true
	case *anyName:
		return AnyNameOf(unionExcept(n.except, o.except)), true
	default:
		return nil, false
	}
}

func (n *anyName) ToArray() ([]Name, bool) {
	return nil, false
}

func (n *anyName) Namespaces() map[string]struct{} {
	out := map[string]struct{}{AnyNamespace: {}}
	if n.except != nil {
		out[HasException] = struct{}{}
	}
	return out
}

func (n *anyName) Equal(other Pattern) bool {
	o, ok := other.(*anyName)
	if !ok {
		return false
	}
	if n.except == nil || o.except == nil {
		return n.except == nil && o.except == nil
	}
	return n.except.Equal(o.except)
}

func (n *anyName) String() string {
	if n.except == nil {
		return "anyName"
	}
	return "anyName(- " + n.except.String() + ")"
}
