package walker

import (
	"strings"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

// listWalker consumes a single text event, splits it on whitespace, and
// feeds each token as a synthetic text event to a fresh walker of the
// inner pattern.
type listWalker struct {
	pat  *pattern.List
	done bool
}

func newListWalker(p *pattern.List) *listWalker { return &listWalker{pat: p} }

func (w *listWalker) FireEvent(ev Event) FireResult {
	if ev.Kind != TextEvent {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("expected a list value")}}
	}
	if w.done {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("a list value was already supplied")}}
	}
	inner := New(w.pat.P)
	for _, tok := range strings.Fields(ev.Value) {
		res := inner.FireEvent(Text(tok))
		if !res.Matched {
			return FireResult{Matched: false, Errors: res.Errors}
		}
	}
	if errs := inner.End(false); len(errs) > 0 {
		return FireResult{Matched: false, Errors: errs}
	}
	w.done = true
	return FireResult{Matched: true}
}

func (w *listWalker) Possible() []namepattern.Pattern           { return nil }
func (w *listWalker) PossibleAttributes() []namepattern.Pattern { return nil }

func (w *listWalker) End(attribute bool) []rngerrors.Validation {
	if w.done {
		return nil
	}
	return []rngerrors.Validation{genericError("expected a list value")}
}

func (w *listWalker) Clone() Walker { return &listWalker{pat: w.pat, done: w.done} }

func (w *listWalker) CanEnd() bool          { return w.done }
func (w *listWalker) CanEndAttribute() bool { return w.done }
