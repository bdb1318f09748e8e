package walker

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

// attributeWalker matches one attribute: an attributeName accepted by
// NameClass, followed by an attributeValue satisfying P.
type attributeWalker struct {
	pat         *pattern.Attribute
	nameMatched bool
	satisfied   bool
	value       Walker
}

func newAttributeWalker(p *pattern.Attribute) *attributeWalker {
	return &attributeWalker{pat: p}
}

func (w *attributeWalker) FireEvent(ev Event) FireResult {
	switch ev.Kind {
	case AttributeNameEvent:
		return w.fireName(ev.NS, ev.Local)
	case AttributeValueEvent:
		return w.fireValue(ev.Value)
	case AttributeNameAndValueEvent:
		if res := w.fireName(ev.NS, ev.Local); !res.Matched {
			return res
		}
		return w.fireValue(ev.Value)
	default:
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("expected an attribute event")}}
	}
}

func (w *attributeWalker) fireName(ns, local string) FireResult {
	if w.nameMatched || !w.pat.NameClass.Match(ns, local) {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{attributeNameError(ns, local)}}
	}
	w.nameMatched = true
	w.value = New(w.pat.P)
	return FireResult{Matched: true}
}

func (w *attributeWalker) fireValue(value string) FireResult {
	if !w.nameMatched {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("attribute value with no matched name")}}
	}
	res := w.value.FireEvent(Text(value))
	if !res.Matched {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{attributeValueError("", "", value)}}
	}
	if errs := w.value.End(true); len(errs) > 0 {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{attributeValueError("", "", value)}}
	}
	w.satisfied = true
	return FireResult{Matched: true}
}

func (w *attributeWalker) Possible() []namepattern.Pattern { return nil }

func (w *attributeWalker) PossibleAttributes() []namepattern.Pattern {
	if w.nameMatched {
		return nil
	}
	return []namepattern.Pattern{w.pat.NameClass}
}

func (w *attributeWalker) End(attribute bool) []rngerrors.Validation {
	if w.satisfied {
		return nil
	}
	return []rngerrors.Validation{requiredAttributeError(w.pat.NameClass)}
}

func (w *attributeWalker) Clone() Walker {
	c := &attributeWalker{pat: w.pat, nameMatched: w.nameMatched, satisfied: w.satisfied}
	if w.value != nil {
		c.value = w.value.Clone()
	}
	return c
}

// CanEnd reports the invariant from (*pattern.Attribute).HasEmptyPattern:
// false until the attribute is fully satisfied.
func (w *attributeWalker) CanEnd() bool          { return w.satisfied }
func (w *attributeWalker) CanEndAttribute() bool { return w.satisfied }
