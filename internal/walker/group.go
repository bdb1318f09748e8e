package walker

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

// groupWalker matches a followed by b. An event is offered to a first;
// once a.canEnd, it may instead be offered to b, and the walker commits
// to b permanently once b accepts an event.
type groupWalker struct {
	a, b Walker
	inB  bool
}

func newGroupWalker(p *pattern.Group) *groupWalker {
	return &groupWalker{a: New(p.A), b: New(p.B)}
}

func (w *groupWalker) FireEvent(ev Event) FireResult {
	if w.inB {
		return w.b.FireEvent(ev)
	}
	ra := w.a.FireEvent(ev)
	if ra.Matched {
		return ra
	}
	if !w.a.CanEnd() {
		return ra
	}
	rb := w.b.FireEvent(ev)
	if rb.Matched {
		w.inB = true
		return rb
	}
	return FireResult{Matched: false, Errors: append(append([]rngerrors.Validation{}, ra.Errors...), rb.Errors...)}
}

func (w *groupWalker) Possible() []namepattern.Pattern {
	if w.inB {
		return w.b.Possible()
	}
	out := append([]namepattern.Pattern{}, w.a.Possible()...)
	if w.a.CanEnd() {
		out = append(out, w.b.Possible()...)
	}
	return out
}

func (w *groupWalker) PossibleAttributes() []namepattern.Pattern {
	if w.inB {
		return w.b.PossibleAttributes()
	}
	out := append([]namepattern.Pattern{}, w.a.PossibleAttributes()...)
	if w.a.CanEndAttribute() {
		out = append(out, w.b.PossibleAttributes()...)
	}
	return out
}

func (w *groupWalker) End(attribute bool) []rngerrors.Validation {
	return append(w.a.End(attribute), w.b.End(attribute)...)
}

func (w *groupWalker) Clone() Walker {
	return &groupWalker{a: w.a.Clone(), b: w.b.Clone(), inB: w.inB}
}

// CanEnd equals a.canEnd && b.canEnd, per §4.E.
func (w *groupWalker) CanEnd() bool { return w.a.CanEnd() && w.b.CanEnd() }

func (w *groupWalker) CanEndAttribute() bool {
	return w.a.CanEndAttribute() && w.b.CanEndAttribute()
}
