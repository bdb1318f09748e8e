package elementtree

import "testing"

func TestAppendDetachesFromPreviousParent(t *testing.T) {
	a := NewElement("", "a", "")
	b := NewElement("", "b", "")
	child := NewElement("", "c", "")

	a.Append(child)
	b.Append(child)

	if len(a.Children) != 0 {
		t.Fatalf("expected a to have no children, got %d", len(a.Children))
	}
	if len(b.Children) != 1 || b.Children[0] != child {
		t.Fatalf("expected b to own child")
	}
	if child.Parent != b {
		t.Fatalf("expected child.Parent == b")
	}
}

func TestInsertAndIndexOfChild(t *testing.T) {
	root := NewElement("", "root", "")
	first := NewElement("", "first", "")
	second := NewElement("", "second", "")
	root.Append(first)
	root.Append(second)

	middle := NewElement("", "middle", "")
	root.Insert(1, middle)

	idx, err := root.IndexOfChild(middle)
	if err != nil || idx != 1 {
		t.Fatalf("IndexOfChild() = %d, %v; want 1, nil", idx, err)
	}
}

func TestIndexOfChildNotAChild(t *testing.T) {
	root := NewElement("", "root", "")
	other := NewElement("", "other", "")
	if _, err := root.IndexOfChild(other); err == nil {
		t.Fatalf("expected ErrNotAChild")
	}
}

func TestReplaceWithOnRootFails(t *testing.T) {
	root := NewElement("", "root", "")
	replacement := NewElement("", "replacement", "")
	if err := root.ReplaceWith(replacement); err == nil {
		t.Fatalf("expected ErrNoParent")
	}
}

func TestReplaceChildWithDetachesReplacement(t *testing.T) {
	root := NewElement("", "root", "")
	other := NewElement("", "other", "")
	a := NewElement("", "a", "")
	b := NewElement("", "b", "")
	root.Append(a)
	other.Append(b)

	if err := root.ReplaceChildWith(a, b); err != nil {
		t.Fatalf("ReplaceChildWith: %v", err)
	}
	if len(other.Children) != 0 {
		t.Fatalf("expected b detached from other")
	}
	if root.Children[0] != b || b.Parent != root {
		t.Fatalf("expected b installed under root")
	}
}

func TestGrabChildrenTransfersAll(t *testing.T) {
	dst := NewElement("", "dst", "")
	src := NewElement("", "src", "")
	c1 := NewElement("", "c1", "")
	c2 := NewElement("", "c2", "")
	src.Append(c1)
	src.Append(c2)

	dst.GrabChildren(src)

	if len(src.Children) != 0 {
		t.Fatalf("expected src emptied")
	}
	if len(dst.Children) != 2 || dst.Children[0] != c1 || dst.Children[1] != c2 {
		t.Fatalf("expected dst to own both children in order")
	}
	if c1.Parent != dst || c2.Parent != dst {
		t.Fatalf("expected reparented children")
	}
}

func TestCloneIsDeepAndUnaliased(t *testing.T) {
	root := NewElement("", "root", "")
	root.SetAttribute(AttrName{Local: "name"}, &Attribute{Local: "name", Value: "x"})
	child := NewElement("", "child", "")
	root.Append(child)

	clone := root.Clone()
	clone.RemoveAttribute(AttrName{Local: "name"})
	clone.Children[0].Local = "mutated"

	if _, ok := root.Attribute(AttrName{Local: "name"}); !ok {
		t.Fatalf("original attribute must survive clone mutation")
	}
	if root.Children[0].Local != "child" {
		t.Fatalf("original child must survive clone mutation")
	}
	if clone.Parent != nil {
		t.Fatalf("clone must be detached")
	}
}

func TestResolvePrefixWalksAncestors(t *testing.T) {
	root := NewElement("", "root", "")
	root.NSDecls = map[string]string{"x": "urn:x"}
	child := NewElement("x", "child", "urn:x")
	root.Append(child)

	uri, ok := child.ResolvePrefix("x")
	if !ok || uri != "urn:x" {
		t.Fatalf("ResolvePrefix(x) = %q, %v; want urn:x, true", uri, ok)
	}

	if uri, ok := child.ResolvePrefix("xml"); !ok || uri != "http://www.w3.org/XML/1998/namespace" {
		t.Fatalf("ResolvePrefix(xml) = %q, %v", uri, ok)
	}
}

func TestPathIncludesNameAttribute(t *testing.T) {
	root := NewElement("", "grammar", "")
	el := NewElement("", "element", "")
	el.SetAttribute(AttrName{Local: "name"}, &Attribute{Local: "name", Value: "foo"})
	root.Append(el)

	if got, want := el.Path(), `/grammar/element[@name="foo"]`; got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}
