package namepattern

// Wire is the JSON-friendly shape of a Pattern, for internal/codec. The
// four variants are private to this package, so encoding/decoding them
// lives here rather than in internal/codec reaching into unexported
// fields.
type Wire struct {
	Kind   string `json:"kind"`
	NS     string `json:"ns,omitempty"`
	Local  string `json:"local,omitempty"`
	A      *Wire  `json:"a,omitempty"`
	B      *Wire  `json:"b,omitempty"`
	Except *Wire  `json:"except,omitempty"`
}

const (
	wireName    = "name"
	wireChoice  = "choice"
	wireNsName  = "nsName"
	wireAnyName = "anyName"
)

// Encode converts p into its wire form. Encode(nil) returns nil.
func Encode(p Pattern) *Wire {
	switch n := p.(type) {
	case nil:
		return nil
	case *exactName:
		return &Wire{Kind: wireName, NS: n.ns, Local: n.local}
	case *choice:
		return &Wire{Kind: wireChoice, A: Encode(n.a), B: Encode(n.b)}
	case *nsName:
		return &Wire{Kind: wireNsName, NS: n.ns, Except: Encode(n.except)}
	case *anyName:
		return &Wire{Kind: wireAnyName, Except: Encode(n.except)}
	default:
		panic("namepattern: Encode: unknown pattern kind")
	}
}

// Decode rebuilds the Pattern a Wire describes. Decode(nil) returns nil.
func Decode(w *Wire) Pattern {
	if w == nil {
		return nil
	}
	switch w.Kind {
	case wireName:
		return NameOf(w.NS, w.Local)
	case wireChoice:
		return Choice(Decode(w.A), Decode(w.B))
	case wireNsName:
		return NsNameOf(w.NS, Decode(w.Except))
	case wireAnyName:
		return AnyNameOf(Decode(w.Except))
	default:
		panic("namepattern: Decode: unknown wire kind " + w.Kind)
	}
}
