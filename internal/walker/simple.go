package walker

import (
	"strings"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
)

// emptyWalker matches only the empty sequence; it ignores whitespace-only
// text and rejects anything else.
type emptyWalker struct{}

func (emptyWalker) FireEvent(ev Event) FireResult {
	if ev.Kind == TextEvent && strings.TrimSpace(ev.Value) == "" {
		return FireResult{Matched: true}
	}
	return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("nothing is allowed here")}}
}
func (emptyWalker) Possible() []namepattern.Pattern            { return nil }
func (emptyWalker) PossibleAttributes() []namepattern.Pattern  { return nil }
func (emptyWalker) End(attribute bool) []rngerrors.Validation  { return nil }
func (emptyWalker) Clone() Walker                              { return emptyWalker{} }
func (emptyWalker) CanEnd() bool                                { return true }
func (emptyWalker) CanEndAttribute() bool                       { return true }

// notAllowedWalker never matches. It is a process-wide singleton: cloning
// returns the same handle, since it carries no state.
type notAllowedWalker struct{}

var notAllowedSingleton Walker = notAllowedWalker{}

func (notAllowedWalker) FireEvent(Event) FireResult                  { return FireResult{Matched: false} }
func (notAllowedWalker) Possible() []namepattern.Pattern              { return nil }
func (notAllowedWalker) PossibleAttributes() []namepattern.Pattern    { return nil }
func (notAllowedWalker) End(attribute bool) []rngerrors.Validation    { return nil }
func (notAllowedWalker) Clone() Walker                                 { return notAllowedSingleton }
func (notAllowedWalker) CanEnd() bool                                  { return true }
func (notAllowedWalker) CanEndAttribute() bool                         { return true }

// textWalker matches any run of character data, including none.
type textWalker struct{}

func (textWalker) FireEvent(ev Event) FireResult {
	if ev.Kind == TextEvent {
		return FireResult{Matched: true}
	}
	return FireResult{Matched: false, Errors: []rngerrors.Validation{genericError("expected text")}}
}
func (textWalker) Possible() []namepattern.Pattern           { return nil }
func (textWalker) PossibleAttributes() []namepattern.Pattern { return nil }
func (textWalker) End(attribute bool) []rngerrors.Validation { return nil }
func (textWalker) Clone() Walker                              { return textWalker{} }
func (textWalker) CanEnd() bool                                { return true }
func (textWalker) CanEndAttribute() bool                       { return true }
