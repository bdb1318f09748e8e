// Package pattern is the compiled, simplified Relax NG grammar: the
// algebraic sum type the simplification pipeline emits and the walker
// machinery consumes. Patterns are constructed exclusively by the
// simplifier (internal/simplify); this package only defines their shape
// and the one-time linking step that resolves Ref -> Define.
package pattern

import (
	"github.com/relaxng/rng/internal/namepattern"
)

// Kind discriminates the pattern variants, primarily for the JSON codec
// and for walker construction's type switch.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNotAllowed
	KindText
	KindData
	KindValue
	KindChoice
	KindGroup
	KindInterleave
	KindOneOrMore
	KindList
	KindAttribute
	KindElement
	KindRef
	KindDefine
	KindGrammar
)

// Pattern is the sealed sum type. HasEmptyPattern reports, without
// constructing a walker, whether the pattern accepts the empty sequence.
type Pattern interface {
	Kind() Kind
	HasEmptyPattern() bool
}

// Param is a single datatype parameter, e.g. <param name="minLength">3</param>.
type Param struct {
	Name  string
	Value string
}

// Empty matches only the empty sequence of events.
type Empty struct{}

func (Empty) Kind() Kind            { return KindEmpty }
func (Empty) HasEmptyPattern() bool { return true }

// NotAllowed matches nothing.
type NotAllowed struct{}

func (NotAllowed) Kind() Kind            { return KindNotAllowed }
func (NotAllowed) HasEmptyPattern() bool { return false }

// Text matches any run of character data, including none.
type Text struct{}

func (Text) Kind() Kind            { return KindText }
func (Text) HasEmptyPattern() bool { return true }

// Data matches a single text event whose value satisfies a datatype,
// optionally minus an except pattern.
type Data struct {
	DatatypeLibrary string
	Datatype        string // "string" or "token", per this validator's supported xsd types
	Params          []Param
	Except          Pattern // optional
}

func (*Data) Kind() Kind            { return KindData }
func (*Data) HasEmptyPattern() bool { return false }

// Value matches a single text event equal (per datatype equality) to Value.
type Value struct {
	DatatypeLibrary string
	Datatype        string
	Value           string
	NS              string // in-scope namespace at the point of definition, for QName-valued datatypes
}

func (*Value) Kind() Kind            { return KindValue }
func (*Value) HasEmptyPattern() bool { return false }

// Choice matches whatever A or B matches.
type Choice struct {
	A, B Pattern
}

func (*Choice) Kind() Kind            { return KindChoice }
func (c *Choice) HasEmptyPattern() bool { return c.A.HasEmptyPattern() || c.B.HasEmptyPattern() }

// Group matches A followed by B.
type Group struct {
	A, B Pattern
}

func (*Group) Kind() Kind            { return KindGroup }
func (g *Group) HasEmptyPattern() bool { return g.A.HasEmptyPattern() && g.B.HasEmptyPattern() }

// Interleave matches A and B in any interspersed order.
type Interleave struct {
	A, B Pattern
}

func (*Interleave) Kind() Kind            { return KindInterleave }
func (i *Interleave) HasEmptyPattern() bool { return i.A.HasEmptyPattern() && i.B.HasEmptyPattern() }

// OneOrMore matches one or more repetitions of P.
type OneOrMore struct {
	P Pattern
}

func (*OneOrMore) Kind() Kind            { return KindOneOrMore }
func (o *OneOrMore) HasEmptyPattern() bool { return o.P.HasEmptyPattern() }

// List matches a single text event whose whitespace-separated tokens each
// match P in sequence.
type List struct {
	P Pattern
}

func (*List) Kind() Kind            { return KindList }
func (l *List) HasEmptyPattern() bool { return l.P.HasEmptyPattern() }

// Attribute matches one attribute whose name satisfies NameClass and
// whose value satisfies P.
type Attribute struct {
	NameClass namepattern.Pattern
	P         Pattern
}

func (*Attribute) Kind() Kind            { return KindAttribute }
func (*Attribute) HasEmptyPattern() bool { return false }

// Element matches one element whose name satisfies NameClass and whose
// content satisfies P.
type Element struct {
	NameClass namepattern.Pattern
	P         Pattern
}

func (*Element) Kind() Kind            { return KindElement }
func (*Element) HasEmptyPattern() bool { return false }

// Ref refers to a Define by name, resolved during Prepare. Since every
// Define's body is exactly one Element pattern (a simplifier invariant),
// and Element never accepts the empty sequence, a Ref can never accept
// the empty sequence either: no fixed-point computation over the
// (possibly cyclic) define graph is needed.
type Ref struct {
	Name     string
	resolved *Define
}

func (*Ref) Kind() Kind            { return KindRef }
func (*Ref) HasEmptyPattern() bool { return false }

// Resolved returns the Define this Ref was linked to by Prepare.
// Calling it before Prepare returns nil.
func (r *Ref) Resolved() *Define { return r.resolved }

// Define names a single grammar rule; its body is always an *Element
// once the simplifier has finished (the "every element not directly
// under define is wrapped in a fresh define" step, §4.C step 16).
type Define struct {
	Name    string
	Element *Element
}

func (*Define) Kind() Kind            { return KindDefine }
func (d *Define) HasEmptyPattern() bool { return d.Element.HasEmptyPattern() }

// Grammar is the top of a compiled schema: one start pattern plus the
// arena of named definitions it (transitively) refers to.
type Grammar struct {
	Start       Pattern
	Definitions map[string]*Define
	Namespaces  map[string]struct{}
}

func (*Grammar) Kind() Kind            { return KindGrammar }
func (g *Grammar) HasEmptyPattern() bool { return g.Start.HasEmptyPattern() }
