package xmlevents

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/loader"
	"github.com/relaxng/rng/internal/pattern"
	"github.com/relaxng/rng/internal/simplify"
	"github.com/relaxng/rng/internal/validator"
)

func compile(t *testing.T, schema string) *pattern.Grammar {
	t.Helper()
	root, err := elementtree.Parse(strings.NewReader(schema))
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	g, err := simplify.Simplify(context.Background(), root, &loader.FSResolver{FS: fstest.MapFS{}}, "schema.rng", simplify.DefaultLimits)
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	return g
}

const rngNS = `xmlns="http://relaxng.org/ns/structure/1.0"`

func TestValidateAcceptsWellFormedDocument(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><attribute name="x"><text/></attribute></element>`)

	errs, err := Validate(strings.NewReader(`<a x="1"/>`), validator.New(g, nil))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", errs)
	}
}

func TestValidateReportsMissingAttribute(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><attribute name="x"><text/></attribute></element>`)

	errs, err := Validate(strings.NewReader(`<a/>`), validator.New(g, nil))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(errs) == 0 {
		t.Fatalf("expected a missing-attribute diagnostic")
	}
}

func TestValidateIgnoresWhitespaceBetweenSiblings(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><element name="b"><empty/></element></element>`)

	doc := "<a>\n  <b/>\n</a>"
	errs, err := Validate(strings.NewReader(doc), validator.New(g, nil))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected no diagnostics, got %v", errs)
	}
}

func TestValidateRejectsEmptyDocument(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><empty/></element>`)

	if _, err := Validate(strings.NewReader(""), validator.New(g, nil)); err == nil {
		t.Fatalf("expected an error for a document with no root element")
	}
}

func TestExplainStopsAtFirstDiagnostic(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><choice>
  <element name="b"><empty/></element>
  <element name="c"><empty/></element>
</choice></element>`)

	diag, possible, found, err := Explain(strings.NewReader(`<a><d/></a>`), validator.New(g, nil))
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if !found {
		t.Fatalf("expected Explain to find a diagnostic")
	}
	if diag.Code == "" {
		t.Fatalf("expected a diagnostic code")
	}
	if len(possible) == 0 {
		t.Fatalf("expected Explain to report what was possible at the failure site")
	}
}
