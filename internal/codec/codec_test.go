package codec

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/loader"
	"github.com/relaxng/rng/internal/pattern"
	"github.com/relaxng/rng/internal/simplify"
	"github.com/relaxng/rng/internal/validator"
	"github.com/relaxng/rng/internal/xmlevents"
)

const rngNS = `xmlns="http://relaxng.org/ns/structure/1.0"`

func compile(t *testing.T, schema string) *pattern.Grammar {
	t.Helper()
	root, err := elementtree.Parse(strings.NewReader(schema))
	require.NoError(t, err, "parse schema")
	g, err := simplify.Simplify(context.Background(), root, &loader.FSResolver{FS: fstest.MapFS{}}, "schema.rng", simplify.DefaultLimits)
	require.NoError(t, err, "simplify")
	return g
}

// roundTrip asserts that, for every document, validating against g and
// against a grammar serialized through WriteGrammar/ReadGrammar produces
// the same number of diagnostics: the property a cache layer actually
// depends on.
func roundTrip(t *testing.T, g *pattern.Grammar, docs []string) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, WriteGrammar(&buf, g))
	g2, err := ReadGrammar(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	for _, doc := range docs {
		want, err := xmlevents.Validate(strings.NewReader(doc), validator.New(g, nil))
		require.NoError(t, err, "Validate(original, %q)", doc)
		got, err := xmlevents.Validate(strings.NewReader(doc), validator.New(g2, nil))
		require.NoError(t, err, "Validate(round-tripped, %q)", doc)
		require.Len(t, got, len(want), "doc %q: original produced %v, round-tripped produced %v", doc, want, got)
	}
}

func TestRoundTripSimpleElement(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><attribute name="x"><text/></attribute></element>`)
	roundTrip(t, g, []string{`<a x="1"/>`, `<a/>`})
}

func TestRoundTripChoiceAndRepetition(t *testing.T) {
	g := compile(t, `<element `+rngNS+` name="a"><oneOrMore><choice>
  <element name="b"><empty/></element>
  <element name="c"><empty/></element>
</choice></oneOrMore></element>`)
	roundTrip(t, g, []string{
		`<a><b/><c/><b/></a>`,
		`<a/>`,
		`<a><d/></a>`,
	})
}

func TestRoundTripSharedDefine(t *testing.T) {
	g := compile(t, `<grammar `+rngNS+`>
  <start><ref name="a"/></start>
  <define name="a"><element name="a"><ref name="b"/></element></define>
  <define name="b"><element name="b"><oneOrMore><ref name="b"/></oneOrMore></element></define>
</grammar>`)
	roundTrip(t, g, []string{`<a><b><b/></b></a>`, `<a><b/></a>`})
}
