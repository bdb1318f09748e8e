package validator

import (
	"strings"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
	"github.com/relaxng/rng/internal/walker"
)

// FireResult is GrammarWalker.FireEvent's outcome. A misplaced element,
// an end tag, and the attribute diagnostics of a StartTagAndAttributes
// event report Matched=true with the errors attached, per §4.F's
// recovery policy; a text or standalone attribute event that no live
// walker accepts reports Matched=false with its errors.
type FireResult struct {
	Matched bool
	Errors  []rngerrors.Validation

	// Possible is set only alongside a misplaced-element diagnostic: the
	// name patterns that would have been accepted instead, for the CLI's
	// --explain mode.
	Possible []namepattern.Pattern
}

// frame is one level of the element stack: either a set of live candidate
// walkers representing concurrent possibilities at this depth, or, while
// recovering from an unrecognized element, a dumb sentinel that swallows
// everything until its matching endTag is seen.
type frame struct {
	walkers   []walker.Walker
	dumb      bool
	dumbDepth int
}

func (f *frame) clone() *frame {
	if f.dumb {
		return &frame{dumb: true, dumbDepth: f.dumbDepth}
	}
	walkers := make([]walker.Walker, len(f.walkers))
	for i, w := range f.walkers {
		walkers[i] = w.Clone()
	}
	return &frame{walkers: walkers}
}

// GrammarWalker is the top-level document validator: a frame stack over
// internal/walker's pattern walkers, plus the whitespace-suspension,
// attribute-swallow, misplaced-element, and namespace-scope bookkeeping
// §4.F describes.
type GrammarWalker struct {
	grammar  *pattern.Grammar
	frames   []*frame
	index    map[string][]*pattern.Element
	resolver NameResolver

	pendingWS            string
	hasPendingWS         bool
	ignoreNextWS         bool
	swallowNextAttrValue bool
}

// New constructs a fresh validator over g's start pattern. A nil resolver
// gets the default XML 1.0 prefix resolver.
func New(g *pattern.Grammar, resolver NameResolver) *GrammarWalker {
	if resolver == nil {
		resolver = NewDefaultResolver()
	}
	return &GrammarWalker{
		grammar:  g,
		frames:   []*frame{{walkers: []walker.Walker{walker.New(g.Start)}}},
		index:    buildElementIndex(g),
		resolver: resolver,
	}
}

// Reset rewinds the walker to validate a fresh document against the
// same grammar, reusing the already-built element index. Session
// pooling (the rng package's Engine) relies on this to avoid rebuilding
// the index per document.
func (w *GrammarWalker) Reset() {
	w.frames = []*frame{{walkers: []walker.Walker{walker.New(w.grammar.Start)}}}
	w.resolver = NewDefaultResolver()
	w.pendingWS = ""
	w.hasPendingWS = false
	w.ignoreNextWS = false
	w.swallowNextAttrValue = false
}

// FireEvent advances the validator by one event. The returned error is
// non-nil only for a programmer-error / internal invariant violation
// (unknown event kind, firing an empty text event, an empty frame
// stack); ordinary schema-violation diagnostics are reported through the
// returned FireResult instead.
func (w *GrammarWalker) FireEvent(ev walker.Event) (FireResult, error) {
	if len(w.frames) == 0 {
		return FireResult{}, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrInternal, "grammar walker has no frames", "")}
	}
	if ev.Kind == walker.TextEvent {
		return w.fireText(ev)
	}

	flushed := w.resolvePendingWhitespace(ev.Kind)

	var result FireResult
	switch ev.Kind {
	case walker.LeaveStartTagEvent:
		result = FireResult{Matched: true}
	case walker.AttributeNameEvent:
		result = w.dispatchContent(ev)
		w.swallowNextAttrValue = !result.Matched
	case walker.AttributeValueEvent:
		if w.swallowNextAttrValue {
			w.swallowNextAttrValue = false
			result = FireResult{Matched: true}
		} else {
			result = w.dispatchContent(ev)
		}
	case walker.AttributeNameAndValueEvent:
		result = w.dispatchContent(ev)
		w.swallowNextAttrValue = false
	case walker.EnterStartTagEvent, walker.StartTagAndAttributesEvent:
		result = w.fireStartTag(ev)
	case walker.EndTagEvent:
		result = w.fireEndTag(ev)
	default:
		return FireResult{}, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrInternal, "unknown event kind", "")}
	}

	if len(flushed) > 0 {
		result.Errors = append(flushed, result.Errors...)
	}
	return result, nil
}

func (w *GrammarWalker) fireText(ev walker.Event) (FireResult, error) {
	if ev.Value == "" {
		return FireResult{}, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrInternal, "firing empty text events makes no sense", "")}
	}
	if strings.TrimSpace(ev.Value) == "" {
		w.pendingWS += ev.Value
		w.hasPendingWS = true
		return FireResult{Matched: true}, nil
	}
	combined := ev.Value
	if w.hasPendingWS {
		combined = w.pendingWS + combined
		w.pendingWS = ""
		w.hasPendingWS = false
	}
	return w.dispatchContent(walker.Text(combined)), nil
}

// resolvePendingWhitespace implements §4.F step 1's flush rule ahead of a
// non-text event: the buffered run is forwarded only when the next event
// closes the current element and whitespace is not being ignored (see
// ignoreNextWS); otherwise it is silently discarded, in both cases before
// nextKind's own event is processed.
func (w *GrammarWalker) resolvePendingWhitespace(nextKind walker.EventKind) []rngerrors.Validation {
	if !w.hasPendingWS {
		return nil
	}
	pending := w.pendingWS
	w.pendingWS = ""
	w.hasPendingWS = false
	if nextKind == walker.EndTagEvent && !w.ignoreNextWS {
		res := w.dispatchContent(walker.Text(pending))
		if !res.Matched {
			return res.Errors
		}
	}
	return nil
}

func (w *GrammarWalker) dispatchContent(ev walker.Event) FireResult {
	top := w.frames[len(w.frames)-1]
	if top.dumb {
		return FireResult{Matched: true}
	}
	var matched []walker.Walker
	var errs []rngerrors.Validation
	for _, wk := range top.walkers {
		res := wk.FireEvent(ev)
		if res.Matched {
			matched = append(matched, wk)
		} else {
			errs = append(errs, res.Errors...)
		}
	}
	if len(matched) == 0 {
		return FireResult{Matched: false, Errors: errs}
	}
	top.walkers = matched
	return FireResult{Matched: true}
}

func (w *GrammarWalker) fireStartTag(ev walker.Event) FireResult {
	top := w.frames[len(w.frames)-1]
	if top.dumb {
		top.dumbDepth++
		return FireResult{Matched: true}
	}

	var matched []walker.Walker
	var refs []*walker.RefWalker
	var errs []rngerrors.Validation
	for _, wk := range top.walkers {
		res := wk.FireEvent(ev)
		if res.Matched {
			matched = append(matched, wk)
			refs = append(refs, res.Refs...)
		} else {
			errs = append(errs, res.Errors...)
		}
	}
	if len(matched) == 0 {
		var possible []namepattern.Pattern
		for _, wk := range top.walkers {
			possible = append(possible, wk.Possible()...)
		}
		res := w.recoverMisplacedElement(ev)
		res.Possible = possible
		return res
	}
	top.walkers = matched

	content := make([]walker.Walker, 0, len(refs))
	for _, r := range refs {
		content = append(content, walker.New(r.Element().P))
	}
	w.frames = append(w.frames, &frame{walkers: content})
	w.ignoreNextWS = false

	var attrErrs []rngerrors.Validation
	if ev.Kind == walker.StartTagAndAttributesEvent {
		for _, a := range ev.Attrs {
			if res := w.dispatchContent(walker.AttributeNameAndValue(a.NS, a.Local, a.Value)); !res.Matched {
				attrErrs = append(attrErrs, res.Errors...)
			}
		}
	}
	return FireResult{Matched: true, Errors: attrErrs}
}

// recoverMisplacedElement implements §4.F step 6: consult the grammar's
// localName index, and either descend into the single unambiguous
// candidate (flagging the mismatch) or enter dumb mode for the whole
// unrecognized subtree.
func (w *GrammarWalker) recoverMisplacedElement(ev walker.Event) FireResult {
	diag := elementNameError(ev.NS, ev.Local)
	if candidates := w.index[ev.Local]; len(candidates) == 1 {
		w.frames = append(w.frames, &frame{walkers: []walker.Walker{walker.New(candidates[0].P)}})
		w.ignoreNextWS = false
		return FireResult{Matched: true, Errors: []rngerrors.Validation{diag}}
	}
	w.frames = append(w.frames, &frame{dumb: true})
	return FireResult{Matched: true, Errors: []rngerrors.Validation{diag}}
}

func (w *GrammarWalker) fireEndTag(ev walker.Event) FireResult {
	top := w.frames[len(w.frames)-1]
	if top.dumb {
		if top.dumbDepth > 0 {
			top.dumbDepth--
			return FireResult{Matched: true}
		}
		w.popFrame()
		w.ignoreNextWS = true
		return FireResult{Matched: true}
	}

	var errs []rngerrors.Validation
	for _, wk := range top.walkers {
		errs = append(errs, wk.End(false)...)
	}
	w.popFrame()
	w.ignoreNextWS = true
	return FireResult{Matched: true, Errors: errs}
}

// popFrame pops the current top frame, but never below the root frame
// that holds the grammar's start pattern.
func (w *GrammarWalker) popFrame() {
	if len(w.frames) > 1 {
		w.frames = w.frames[:len(w.frames)-1]
	}
}

// CanEnd reports whether the document could legally end right now: the
// stack must have unwound to the root frame, and at least one of its
// candidate walkers must itself be ready to terminate.
func (w *GrammarWalker) CanEnd() bool {
	if len(w.frames) != 1 {
		return false
	}
	top := w.frames[0]
	if top.dumb {
		return false
	}
	for _, wk := range top.walkers {
		if wk.CanEnd() {
			return true
		}
	}
	return false
}

// End closes the document, reporting cumulative errors.
func (w *GrammarWalker) End() []rngerrors.Validation {
	if len(w.frames) != 1 {
		return []rngerrors.Validation{genericError("document ended while elements remain open")}
	}
	top := w.frames[0]
	if top.dumb {
		return nil
	}
	var errs []rngerrors.Validation
	for _, wk := range top.walkers {
		errs = append(errs, wk.End(false)...)
	}
	return errs
}

// Possible returns the name patterns an event at the current depth could
// satisfy, for diagnostics (the CLI's --explain mode).
func (w *GrammarWalker) Possible() []namepattern.Pattern {
	top := w.frames[len(w.frames)-1]
	if top.dumb {
		return nil
	}
	var out []namepattern.Pattern
	for _, wk := range top.walkers {
		out = append(out, wk.Possible()...)
	}
	return out
}

// Clone returns an independent validator sharing the grammar's immutable
// index but with its own frame stack and name resolver, so it can be run
// from a separate goroutine with no shared mutable state.
func (w *GrammarWalker) Clone() *GrammarWalker {
	frames := make([]*frame, len(w.frames))
	for i, f := range w.frames {
		frames[i] = f.clone()
	}
	return &GrammarWalker{
		grammar:              w.grammar,
		frames:               frames,
		index:                w.index,
		resolver:             w.resolver.Clone(),
		pendingWS:            w.pendingWS,
		hasPendingWS:         w.hasPendingWS,
		ignoreNextWS:         w.ignoreNextWS,
		swallowNextAttrValue: w.swallowNextAttrValue,
	}
}

// EnterContext, LeaveContext and DefinePrefix delegate to the validator's
// name resolver, so the driver can track XML namespace scopes as it
// descends/ascends the document (§4.F step 7).
func (w *GrammarWalker) EnterContext()                     { w.resolver.EnterContext() }
func (w *GrammarWalker) LeaveContext()                     { w.resolver.LeaveContext() }
func (w *GrammarWalker) DefinePrefix(prefix, uri string)   { w.resolver.DefinePrefix(prefix, uri) }
func (w *GrammarWalker) ResolveName(qname string, isAttribute bool) (ns, local string, ok bool) {
	return w.resolver.ResolveName(qname, isAttribute)
}
