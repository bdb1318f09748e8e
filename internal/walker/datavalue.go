package walker

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/pattern"
)

// normalizeValue applies the whitespace facet built into a datatype:
// "token" collapses runs of whitespace and trims the ends; "string"
// (the default, and anything else this validator does not special-case)
// preserves the value as given.
func normalizeValue(datatype, value string) string {
	if datatype == "token" {
		return strings.Join(strings.Fields(value), " ")
	}
	return value
}

// checkFacets applies the length-family facets this validator supports
// for the built-in xsd string/token datatypes. Facets it does not
// recognize are ignored rather than rejected, since a datatype library
// may define its own.
func checkFacets(params []pattern.Param, value string) error {
	n := utf8.RuneCountInString(value)
	for _, p := range params {
		switch p.Name {
		case "length":
			want, err := strconv.Atoi(p.Value)
			if err != nil {
				return fmt.Errorf("walker: bad length facet %q: %w", p.Value, err)
			}
			if n != want {
				return fmt.Errorf("length %d, want %d", n, want)
			}
		case "minLength":
			want, err := strconv.Atoi(p.Value)
			if err != nil {
				return fmt.Errorf("walker: bad minLength facet %q: %w", p.Value, err)
			}
			if n < want {
				return fmt.Errorf("length %d, want at least %d", n, want)
			}
		case "maxLength":
			want, err := strconv.Atoi(p.Value)
			if err != nil {
				return fmt.Errorf("walker: bad maxLength facet %q: %w", p.Value, err)
			}
			if n > want {
				return fmt.Errorf("length %d, want at most %d", n, want)
			}
		}
	}
	return nil
}

// exceptRejects reports whether value matches the except sub-pattern of a
// Data pattern, by firing it through a fresh walker of its own.
func exceptRejects(except pattern.Pattern, value string) bool {
	w := New(except)
	res := w.FireEvent(Text(value))
	if !res.Matched {
		return false
	}
	return len(w.End(false)) == 0
}

// dataWalker matches a single text event whose value satisfies a
// datatype (optionally minus an except pattern). It never accepts the
// empty sequence, matching (*pattern.Data).HasEmptyPattern.
type dataWalker struct {
	pat      *pattern.Data
	consumed bool
}

func newDataWalker(p *pattern.Data) *dataWalker { return &dataWalker{pat: p} }

func (w *dataWalker) FireEvent(ev Event) FireResult {
	if ev.Kind != TextEvent {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("expected a data value")}}
	}
	if w.consumed {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("a data value was already supplied")}}
	}
	norm := normalizeValue(w.pat.Datatype, ev.Value)
	if err := checkFacets(w.pat.Params, norm); err != nil {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError(err.Error())}}
	}
	if w.pat.Except != nil && exceptRejects(w.pat.Except, ev.Value) {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("value is excluded")}}
	}
	w.consumed = true
	return FireResult{Matched: true}
}

func (w *dataWalker) Possible() []namepattern.Pattern           { return nil }
func (w *dataWalker) PossibleAttributes() []namepattern.Pattern { return nil }
func (w *dataWalker) End(attribute bool) []rngerrors.Validation {
	if w.consumed {
		return nil
	}
	return []rngerrors.Validation{genericError("expected a data value")}
}
func (w *dataWalker) Clone() Walker {
	c := *w
	return &c
}
func (w *dataWalker) CanEnd() bool          { return w.consumed }
func (w *dataWalker) CanEndAttribute() bool { return w.consumed }

// valueWalker matches a single text event equal, under the datatype's
// whitespace facet, to a fixed value.
type valueWalker struct {
	pat      *pattern.Value
	consumed bool
}

func newValueWalker(p *pattern.Value) *valueWalker { return &valueWalker{pat: p} }

func (w *valueWalker) FireEvent(ev Event) FireResult {
	if ev.Kind != TextEvent {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("expected a value")}}
	}
	if w.consumed {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("a value was already supplied")}}
	}
	got := normalizeValue(w.pat.Datatype, ev.Value)
	want := normalizeValue(w.pat.Datatype, w.pat.Value)
	if got != want {
		return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError(fmt.Sprintf("value %q, want %q", ev.Value, w.pat.Value))}}
	}
	w.consumed = true
	return FireResult{Matched: true}
}

func (w *valueWalker) Possible() []namepattern.Pattern           { return nil }
func (w *valueWalker) PossibleAttributes() []namepattern.Pattern { return nil }
func (w *valueWalker) End(attribute bool) []rngerrors.Validation {
	if w.consumed {
		return nil
	}
	return []rngerrors.Validation{genericError("expected a value")}
}
func (w *valueWalker) Clone() Walker {
	c := *w
	return &c
}
func (w *valueWalker) CanEnd() bool          { return w.consumed }
func (w *valueWalker) CanEndAttribute() bool { return w.consumed }
