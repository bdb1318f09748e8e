package elementtree

import (
	"strings"
	"testing"
)

func TestParseBuildsTreeWithNamespaceAndAttributes(t *testing.T) {
	doc := `<grammar xmlns="http://relaxng.org/ns/structure/1.0">
  <start><element name="root"><text/></element></start>
</grammar>`

	root, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.Local != "grammar" || root.URI != "http://relaxng.org/ns/structure/1.0" {
		t.Fatalf("unexpected root: %s %s", root.URI, root.Local)
	}
	var kids []*Node
	for _, c := range root.Children {
		if c.Kind == Element {
			kids = append(kids, c)
		}
	}
	if len(kids) != 1 || kids[0].Local != "start" {
		t.Fatalf("expected a single start child")
	}
	el := kids[0].Children[0]
	if el.Local != "element" || el.AttributeValue("", "name") != "root" {
		t.Fatalf("expected element name=root, got %+v", el)
	}
}

func TestParseReturnsErrorOnEmptyDocument(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Fatalf("expected an error for a document with no root element")
	}
}
