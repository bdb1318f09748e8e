package walker

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

// oneOrMoreWalker maintains a live clone of p as current. When an event
// doesn't match current but current.canEnd, a fresh clone is spawned to
// accept the start of a further iteration; current always denotes the
// latest (possibly incomplete) iteration, so canEnd/end need no extra
// bookkeeping beyond delegating to current.
type oneOrMoreWalker struct {
	pat     *pattern.OneOrMore
	current Walker
}

func newOneOrMoreWalker(p *pattern.OneOrMore) *oneOrMoreWalker {
	return &oneOrMoreWalker{pat: p, current: New(p.P)}
}

func (w *oneOrMoreWalker) FireEvent(ev Event) FireResult {
	res := w.current.FireEvent(ev)
	if res.Matched {
		return res
	}
	if !w.current.CanEnd() {
		return res
	}
	fresh := New(w.pat.P)
	res2 := fresh.FireEvent(ev)
	if res2.Matched {
		w.current = fresh
		return res2
	}
	return FireResult{Matched: false, Errors: append(append([]rngerrors.Validation{}, res.Errors...), res2.Errors...)}
}

func (w *oneOrMoreWalker) Possible() []namepattern.Pattern           { return w.current.Possible() }
func (w *oneOrMoreWalker) PossibleAttributes() []namepattern.Pattern { return w.current.PossibleAttributes() }
func (w *oneOrMoreWalker) End(attribute bool) []rngerrors.Validation { return w.current.End(attribute) }

func (w *oneOrMoreWalker) Clone() Walker {
	return &oneOrMoreWalker{pat: w.pat, current: w.current.Clone()}
}

func (w *oneOrMoreWalker) CanEnd() bool          { return w.current.CanEnd() }
func (w *oneOrMoreWalker) CanEndAttribute() bool { return w.current.CanEndAttribute() }
