package walker

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

// RefWalker observes an opening tag on behalf of a Ref. On a name-class
// match it reports matched=true with refs=[self]; the grammar walker
// then descends into Element() to validate the element's content
// (§4.F step 4). It becomes spent after this single acceptance.
type RefWalker struct {
	ref   *pattern.Ref
	spent bool
}

func newRefWalker(r *pattern.Ref) *RefWalker { return &RefWalker{ref: r} }

// Element returns the compiled content pattern for the element this ref
// resolved to. Valid only after the walker has matched.
func (w *RefWalker) Element() *pattern.Element { return w.ref.Resolved().Element }

func (w *RefWalker) FireEvent(ev Event) FireResult {
	switch ev.Kind {
	case EnterStartTagEvent, StartTagAndAttributesEvent:
	default:
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("expected a start tag")}}
	}
	if w.spent {
		return FireResult{Matched: false}
	}
	el := w.ref.Resolved().Element
	if !el.NameClass.Match(ev.NS, ev.Local) {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{elementNameError(ev.NS, ev.Local)}}
	}
	w.spent = true
	return FireResult{Matched: true, Refs: []*RefWalker{w}}
}

func (w *RefWalker) Possible() []namepattern.Pattern {
	if w.spent {
		return nil
	}
	return []namepattern.Pattern{w.ref.Resolved().Element.NameClass}
}

func (w *RefWalker) PossibleAttributes() []namepattern.Pattern { return nil }

func (w *RefWalker) End(attribute bool) []rngerrors.Validation {
	if w.spent {
		return nil
	}
	return []rngerrors.Validation{requiredElementError(w.ref.Resolved().Element.NameClass)}
}

func (w *RefWalker) Clone() Walker {
	return &RefWalker{ref: w.ref, spent: w.spent}
}

// CanEnd reflects (*pattern.Ref).HasEmptyPattern: false until spent.
func (w *RefWalker) CanEnd() bool          { return w.spent }
func (w *RefWalker) CanEndAttribute() bool { return false }
