package validator

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/loader"
	"github.com/relaxng/rng/internal/pattern"
	"github.com/relaxng/rng/internal/simplify"
	"github.com/relaxng/rng/internal/walker"
)

func compile(t *testing.T, doc string) *pattern.Grammar {
	t.Helper()
	root, err := elementtree.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	g, err := simplify.Simplify(context.Background(), root, &loader.FSResolver{FS: fstest.MapFS{}}, "schema.rng", simplify.DefaultLimits)
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	return g
}

const rngNS = `xmlns="http://relaxng.org/ns/structure/1.0"`

func TestGrammarWalkerEmptyElementAcceptsSelfClose(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><empty/></element>`)
	w := New(g, nil)

	mustFire(t, w, walker.EnterStartTag("", "a"))
	mustFire(t, w, walker.LeaveStartTag())
	mustFire(t, w, walker.EndTag("", "a"))

	if !w.CanEnd() {
		t.Fatalf("expected the document to be allowed to end")
	}
	if errs := w.End(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestGrammarWalkerEmptyElementRejectsText(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><empty/></element>`)
	w := New(g, nil)

	mustFire(t, w, walker.EnterStartTag("", "a"))
	res, err := w.FireEvent(walker.Text("x"))
	if err != nil {
		t.Fatalf("FireEvent: %v", err)
	}
	if res.Matched {
		t.Fatalf("expected text to be rejected inside an empty content model")
	}
}

func TestGrammarWalkerRequiredAttributeMissing(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><attribute name="x"><text/></attribute></element>`)

	w := New(g, nil)
	mustFire(t, w, walker.EnterStartTag("", "a"))
	mustFire(t, w, walker.LeaveStartTag())
	res, err := w.FireEvent(walker.EndTag("", "a"))
	if err != nil {
		t.Fatalf("FireEvent: %v", err)
	}
	if len(res.Errors) == 0 {
		t.Fatalf("expected a missing-attribute diagnostic")
	}

	w2 := New(g, nil)
	mustFire(t, w2, walker.EnterStartTag("", "a"))
	mustFire(t, w2, walker.AttributeNameAndValue("", "x", "1"))
	mustFire(t, w2, walker.LeaveStartTag())
	end, err := w2.FireEvent(walker.EndTag("", "a"))
	if err != nil {
		t.Fatalf("FireEvent: %v", err)
	}
	if len(end.Errors) != 0 {
		t.Fatalf("expected no errors with the attribute present, got %v", end.Errors)
	}
}

func TestGrammarWalkerChoiceRejectsUnknownElement(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><choice>
  <element name="b"><empty/></element>
  <element name="c"><empty/></element>
</choice></element>`)

	w := New(g, nil)
	mustFire(t, w, walker.EnterStartTag("", "a"))
	mustFire(t, w, walker.LeaveStartTag())
	res, err := w.FireEvent(walker.EnterStartTag("", "d"))
	if err != nil {
		t.Fatalf("FireEvent: %v", err)
	}
	if !res.Matched {
		t.Fatalf("expected the walker to enter recovery rather than reject outright")
	}
	if len(res.Errors) == 0 {
		t.Fatalf("expected an element-name diagnostic")
	}
}

func TestGrammarWalkerOneOrMoreRequiresAtLeastOne(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><oneOrMore><element name="b"><empty/></element></oneOrMore></element>`)

	w := New(g, nil)
	mustFire(t, w, walker.EnterStartTag("", "a"))
	mustFire(t, w, walker.LeaveStartTag())
	for i := 0; i < 3; i++ {
		mustFire(t, w, walker.EnterStartTag("", "b"))
		mustFire(t, w, walker.LeaveStartTag())
		mustFire(t, w, walker.EndTag("", "b"))
	}
	end, err := w.FireEvent(walker.EndTag("", "a"))
	if err != nil || len(end.Errors) != 0 {
		t.Fatalf("expected three b's to satisfy oneOrMore, got errs=%v err=%v", end.Errors, err)
	}

	w2 := New(g, nil)
	mustFire(t, w2, walker.EnterStartTag("", "a"))
	mustFire(t, w2, walker.LeaveStartTag())
	end2, err := w2.FireEvent(walker.EndTag("", "a"))
	if err != nil {
		t.Fatalf("FireEvent: %v", err)
	}
	if len(end2.Errors) == 0 {
		t.Fatalf("expected a missing-element diagnostic with zero b's")
	}
}

func TestGrammarWalkerWhitespaceBetweenSiblingsIsIgnored(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><element name="b"><empty/></element></element>`)

	w := New(g, nil)
	mustFire(t, w, walker.EnterStartTag("", "a"))
	mustFire(t, w, walker.LeaveStartTag())
	mustFire(t, w, walker.Text("\n  "))
	mustFire(t, w, walker.EnterStartTag("", "b"))
	mustFire(t, w, walker.LeaveStartTag())
	mustFire(t, w, walker.Text("  "))
	mustFire(t, w, walker.EndTag("", "b"))
	mustFire(t, w, walker.Text("\n"))
	end, err := w.FireEvent(walker.EndTag("", "a"))
	if err != nil || len(end.Errors) != 0 {
		t.Fatalf("expected inter-element whitespace to be neutral, got errs=%v err=%v", end.Errors, err)
	}
}

func TestGrammarWalkerEmptyTextEventIsRejectedAsInternalError(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><empty/></element>`)
	w := New(g, nil)
	mustFire(t, w, walker.EnterStartTag("", "a"))
	if _, err := w.FireEvent(walker.Text("")); err == nil {
		t.Fatalf("expected firing an empty text event to report an internal error")
	}
}

func mustFire(t *testing.T, w *GrammarWalker, ev walker.Event) {
	t.Helper()
	if _, err := w.FireEvent(ev); err != nil {
		t.Fatalf("FireEvent(%v): %v", ev, err)
	}
}
