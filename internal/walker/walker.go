// Package walker is the incremental, derivative-style recognizer that
// consumes the event vocabulary in no particular I/O binding (see
// internal/xmlevents for the event source adapter and internal/validator
// for the element stack) and reports whether a compiled pattern
// (internal/pattern) still matches. Each pattern variant has a
// corresponding walker variant; composite walkers (Choice, Group,
// Interleave, OneOrMore) hold live sub-walkers and delegate to them,
// while List feeds each text event's tokens to a fresh inner walker.
package walker

import (
	"fmt"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

// EventKind discriminates the wire vocabulary a walker reacts to.
type EventKind uint8

const (
	EnterStartTagEvent EventKind = iota
	AttributeNameEvent
	AttributeValueEvent
	AttributeNameAndValueEvent
	LeaveStartTagEvent
	StartTagAndAttributesEvent
	TextEvent
	EndTagEvent
)

// Attr is one (name, value) pair within a StartTagAndAttributes event.
type Attr struct {
	NS, Local, Value string
}

// Event is the parameter bundle fireEvent consumes, per §4.E's table.
type Event struct {
	Kind      EventKind
	NS, Local string
	Value     string
	Attrs     []Attr
}

func EnterStartTag(ns, local string) Event {
	return Event{Kind: EnterStartTagEvent, NS: ns, Local: local}
}

func AttributeName(ns, local string) Event {
	return Event{Kind: AttributeNameEvent, NS: ns, Local: local}
}

func AttributeValue(value string) Event {
	return Event{Kind: AttributeValueEvent, Value: value}
}

func AttributeNameAndValue(ns, local, value string) Event {
	return Event{Kind: AttributeNameAndValueEvent, NS: ns, Local: local, Value: value}
}

func LeaveStartTag() Event {
	return Event{Kind: LeaveStartTagEvent}
}

func StartTagAndAttributes(ns, local string, attrs []Attr) Event {
	return Event{Kind: StartTagAndAttributesEvent, NS: ns, Local: local, Attrs: attrs}
}

func Text(value string) Event {
	return Event{Kind: TextEvent, Value: value}
}

func EndTag(ns, local string) Event {
	return Event{Kind: EndTagEvent, NS: ns, Local: local}
}

// FireResult is fireEvent's outcome. Matched=true with no Refs means the
// event was consumed by this walker directly. Matched=true with Refs
// means the event opened an element and the grammar walker must descend
// into each ref's content (§4.F step 4). Matched=false is a rejection,
// with optional diagnostics.
type FireResult struct {
	Matched bool
	Errors  []rngerrors.Validation
	Refs    []*RefWalker
}

// Walker is an incremental state object over one compiled pattern.
type Walker interface {
	FireEvent(ev Event) FireResult
	Possible() []namepattern.Pattern
	PossibleAttributes() []namepattern.Pattern
	End(attribute bool) []rngerrors.Validation
	Clone() Walker
	CanEnd() bool
	CanEndAttribute() bool
}

// New constructs the walker variant for p. p is never a bare *pattern.Element:
// by the simplifier's define/ref normalization (§4.C step 7), every Element
// is the body of a Define and reached only through a Ref.
func New(p pattern.Pattern) Walker {
	switch n := p.(type) {
	case pattern.Empty:
		return emptyWalker{}
	case pattern.NotAllowed:
		return notAllowedSingleton
	case pattern.Text:
		return textWalker{}
	case *pattern.Data:
		return newDataWalker(n)
	case *pattern.Value:
		return newValueWalker(n)
	case *pattern.Choice:
		return newChoiceWalker(n)
	case *pattern.Group:
		return newGroupWalker(n)
	case *pattern.Interleave:
		return newInterleaveWalker(n)
	case *pattern.OneOrMore:
		return newOneOrMoreWalker(n)
	case *pattern.List:
		return newListWalker(n)
	case *pattern.Attribute:
		return newAttributeWalker(n)
	case *pattern.Ref:
		return newRefWalker(n)
	default:
		panic(fmt.Sprintf("walker: New: unexpected pattern kind %T", p))
	}
}
