package walker

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

// interleaveWalker matches a and b in any interspersed order: each event
// is tried against both, and whichever accepts consumes it.
type interleaveWalker struct {
	a, b Walker
}

func newInterleaveWalker(p *pattern.Interleave) *interleaveWalker {
	return &interleaveWalker{a: New(p.A), b: New(p.B)}
}

func (w *interleaveWalker) FireEvent(ev Event) FireResult {
	ra := w.a.FireEvent(ev)
	if ra.Matched {
		return ra
	}
	rb := w.b.FireEvent(ev)
	if rb.Matched {
		return rb
	}
	return FireResult{Matched: false, Errors: append(append([]rngerrors.Validation{}, ra.Errors...), rb.Errors...)}
}

func (w *interleaveWalker) Possible() []namepattern.Pattern {
	return append(append([]namepattern.Pattern{}, w.a.Possible()...), w.b.Possible()...)
}

func (w *interleaveWalker) PossibleAttributes() []namepattern.Pattern {
	return append(append([]namepattern.Pattern{}, w.a.PossibleAttributes()...), w.b.PossibleAttributes()...)
}

func (w *interleaveWalker) End(attribute bool) []rngerrors.Validation {
	return append(w.a.End(attribute), w.b.End(attribute)...)
}

func (w *interleaveWalker) Clone() Walker {
	return &interleaveWalker{a: w.a.Clone(), b: w.b.Clone()}
}

func (w *interleaveWalker) CanEnd() bool { return w.a.CanEnd() && w.b.CanEnd() }

func (w *interleaveWalker) CanEndAttribute() bool {
	return w.a.CanEndAttribute() && w.b.CanEndAttribute()
}
