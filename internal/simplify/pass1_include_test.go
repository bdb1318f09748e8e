package simplify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/loader"
)

func parseXML(t *testing.T, doc string) *elementtree.Node {
	t.Helper()
	n, err := elementtree.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	stripInsignificantWhitespace(n)
	return n
}

func TestResolveExternalRefSubstitutesFetchedRoot(t *testing.T) {
	fsys := fstest.MapFS{
		"other.rng": {Data: []byte(`<element xmlns="http://relaxng.org/ns/structure/1.0" name="foo"><text/></element>`)},
	}
	ld := loader.New(&loader.FSResolver{FS: fsys, Base: "main.rng"})

	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0"><externalRef href="other.rng"/></start>`)
	if err := resolveIncludes(context.Background(), root, ld, "main.rng", DefaultLimits); err != nil {
		t.Fatalf("resolveIncludes: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].Local != elElement {
		t.Fatalf("expected externalRef replaced by element, got %+v", root.Children)
	}
}

func TestResolveIncludeMergesDefinesAndHonorsOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"base.rng": {Data: []byte(`<grammar xmlns="http://relaxng.org/ns/structure/1.0">
  <start><ref name="root"/></start>
  <define name="root"><element name="root"><ref name="body"/></element></define>
  <define name="body"><text/></define>
</grammar>`)},
	}
	ld := loader.New(&loader.FSResolver{FS: fsys, Base: "main.rng"})

	root := parseXML(t, `<grammar xmlns="http://relaxng.org/ns/structure/1.0">
  <include href="base.rng">
    <define name="body"><empty/></define>
  </include>
</grammar>`)
	if err := resolveIncludes(context.Background(), root, ld, "main.rng", DefaultLimits); err != nil {
		t.Fatalf("resolveIncludes: %v", err)
	}

	div := root.Children[0]
	if div.Local != elDiv {
		t.Fatalf("expected include replaced by a div, got %s", div.Local)
	}
	var bodyCount, emptyBody int
	for _, c := range elementChildren(div) {
		if c.Local == elDefine && c.AttributeValue("", atName) == "body" {
			bodyCount++
			if len(elementChildren(c)) == 1 && elementChildren(c)[0].Local == elEmpty {
				emptyBody++
			}
		}
	}
	if bodyCount != 1 {
		t.Fatalf("expected exactly one body define after override, got %d", bodyCount)
	}
	if emptyBody != 1 {
		t.Fatalf("expected the override's <empty/> body to win, got the base grammar's")
	}
}

func TestResolveIncludeDetectsCycle(t *testing.T) {
	fsys := fstest.MapFS{
		"a.rng": {Data: []byte(`<grammar xmlns="http://relaxng.org/ns/structure/1.0"><include href="b.rng"/></grammar>`)},
		"b.rng": {Data: []byte(`<grammar xmlns="http://relaxng.org/ns/structure/1.0"><include href="a.rng"/></grammar>`)},
	}
	ld := loader.New(&loader.FSResolver{FS: fsys, Base: "a.rng"})

	root := parseXML(t, `<grammar xmlns="http://relaxng.org/ns/structure/1.0"><include href="b.rng"/></grammar>`)
	err := resolveIncludes(context.Background(), root, ld, "a.rng", DefaultLimits)
	if err == nil {
		t.Fatalf("expected a cycle error")
	}
	var list rngerrors.ValidationList
	if !errors.As(err, &list) || list[0].Code != string(rngerrors.ErrIncludeCycle) {
		t.Fatalf("expected ErrIncludeCycle, got %v", err)
	}
}

func TestResolveExternalRefMissingFileIsUnresolvable(t *testing.T) {
	fsys := fstest.MapFS{}
	ld := loader.New(&loader.FSResolver{FS: fsys, Base: "main.rng"})
	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0"><externalRef href="missing.rng"/></start>`)
	err := resolveIncludes(context.Background(), root, ld, "main.rng", DefaultLimits)
	var list rngerrors.ValidationList
	if !errors.As(err, &list) || list[0].Code != string(rngerrors.ErrUnresolvableResource) {
		t.Fatalf("expected ErrUnresolvableResource, got %v", err)
	}
}
