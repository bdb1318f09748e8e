package walker

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

// choiceWalker clones both children; an event matches if either child
// matches. Once only one child continues to match, the other is
// discarded permanently; errors surface only when both reject.
type choiceWalker struct {
	a, b Walker
}

func newChoiceWalker(p *pattern.Choice) *choiceWalker {
	return &choiceWalker{a: New(p.A), b: New(p.B)}
}

func (w *choiceWalker) FireEvent(ev Event) FireResult {
	var ra, rb FireResult
	if w.a != nil {
		ra = w.a.FireEvent(ev)
	}
	if w.b != nil {
		rb = w.b.FireEvent(ev)
	}
	switch {
	case ra.Matched && rb.Matched:
		return FireResult{Matched: true, Refs: append(append([]*RefWalker{}, ra.Refs...), rb.Refs...)}
	case ra.Matched:
		w.b = nil
		return FireResult{Matched: true, Refs: ra.Refs}
	case rb.Matched:
		w.a = nil
		return FireResult{Matched: true, Refs: rb.Refs}
	default:
		return FireResult{Matched: false, Errors: []rngerrors.Validation{choiceError()}}
	}
}

func (w *choiceWalker) Possible() []namepattern.Pattern {
	var out []namepattern.Pattern
	if w.a != nil {
		out = append(out, w.a.Possible()...)
	}
	if w.b != nil {
		out = append(out, w.b.Possible()...)
	}
	return out
}

func (w *choiceWalker) PossibleAttributes() []namepattern.Pattern {
	var out []namepattern.Pattern
	if w.a != nil {
		out = append(out, w.a.PossibleAttributes()...)
	}
	if w.b != nil {
		out = append(out, w.b.PossibleAttributes()...)
	}
	return out
}

func (w *choiceWalker) End(attribute bool) []rngerrors.Validation {
	switch {
	case w.a != nil && w.b != nil:
		errsA := w.a.End(attribute)
		errsB := w.b.End(attribute)
		if len(errsA) == 0 || len(errsB) == 0 {
			return nil
		}
		return append(errsA, errsB...)
	case w.a != nil:
		return w.a.End(attribute)
	case w.b != nil:
		return w.b.End(attribute)
	default:
		return []rngerrors.Validation{choiceError()}
	}
}

func (w *choiceWalker) Clone() Walker {
	c := &choiceWalker{}
	if w.a != nil {
		c.a = w.a.Clone()
	}
	if w.b != nil {
		c.b = w.b.Clone()
	}
	return c
}

func (w *choiceWalker) CanEnd() bool {
	switch {
	case w.a != nil && w.b != nil:
		return w.a.CanEnd() || w.b.CanEnd()
	case w.a != nil:
		return w.a.CanEnd()
	case w.b != nil:
		return w.b.CanEnd()
	default:
		return false
	}
}

func (w *choiceWalker) CanEndAttribute() bool {
	switch {
	case w.a != nil && w.b != nil:
		return w.a.CanEndAttribute() || w.b.CanEndAttribute()
	case w.a != nil:
		return w.a.CanEndAttribute()
	case w.b != nil:
		return w.b.CanEndAttribute()
	default:
		return false
	}
}
