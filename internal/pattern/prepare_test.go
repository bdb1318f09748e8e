package pattern

import (
	"testing"

	"github.com/relaxng/rng/internal/namepattern"
)

func TestPrepareResolvesRef(t *testing.T) {
	def := &Define{
		Name: "b",
		Element: &Element{
			NameClass: namepattern.NameOf("", "b"),
			P:         Empty{},
		},
	}
	ref := &Ref{Name: "b"}
	g := &Grammar{
		Start:       ref,
		Definitions: map[string]*Define{"b": def},
	}

	if err := g.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if ref.Resolved() != def {
		t.Fatalf("expected ref resolved to def")
	}
}

func TestPrepareUnresolvedRefErrors(t *testing.T) {
	ref := &Ref{Name: "missing"}
	g := &Grammar{Start: ref, Definitions: map[string]*Define{}}

	err := g.Prepare()
	if err == nil {
		t.Fatalf("expected error for unresolved ref")
	}
}

func TestPrepareRecordsNamespaces(t *testing.T) {
	def := &Define{
		Name: "a",
		Element: &Element{
			NameClass: namepattern.NsNameOf("urn:x", nil),
			P:         Text{},
		},
	}
	g := &Grammar{
		Start:       &Ref{Name: "a"},
		Definitions: map[string]*Define{"a": def},
	}
	if err := g.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if _, ok := g.Namespaces["urn:x"]; !ok {
		t.Fatalf("expected urn:x recorded, got %v", g.Namespaces)
	}
}

func TestHasEmptyPatternConsistency(t *testing.T) {
	cases := []struct {
		name string
		p    Pattern
		want bool
	}{
		{"empty", Empty{}, true},
		{"notAllowed", NotAllowed{}, false},
		{"text", Text{}, true},
		{"choice-with-empty", &Choice{A: Empty{}, B: &Attribute{}}, true},
		{"group-both-empty", &Group{A: Empty{}, B: Text{}}, true},
		{"group-one-not", &Group{A: Empty{}, B: &Attribute{}}, false},
		{"oneOrMore-empty-inner", &OneOrMore{P: Empty{}}, true},
		{"ref-never-empty", &Ref{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.HasEmptyPattern(); got != tc.want {
				t.Fatalf("HasEmptyPattern() = %v, want %v", got, tc.want)
			}
		})
	}
}
