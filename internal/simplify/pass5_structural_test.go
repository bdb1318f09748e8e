package simplify

import "testing"

func TestFoldBinaryUnwrapsSingleChild(t *testing.T) {
	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0"><choice><text/></choice></start>`)
	if err := applyStructuralRewrites(root); err != nil {
		t.Fatalf("applyStructuralRewrites: %v", err)
	}
	if len(elementChildren(root)) != 1 || elementChildren(root)[0].Local != elText {
		t.Fatalf("expected the lone choice child to replace it, got %+v", elementChildren(root))
	}
}

func TestFoldBinaryLeftFoldsMultipleChildren(t *testing.T) {
	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0">
  <choice><text/><empty/><notAllowed/></choice>
</start>`)
	if err := applyStructuralRewrites(root); err != nil {
		t.Fatalf("applyStructuralRewrites: %v", err)
	}
	outer := elementChildren(root)[0]
	if outer.Local != elChoice {
		t.Fatalf("expected outer choice, got %s", outer.Local)
	}
	kids := elementChildren(outer)
	if len(kids) != 2 || kids[1].Local != elNotAllowed {
		t.Fatalf("expected left-folded binary choice, got %+v", kids)
	}
	if kids[0].Local != elChoice {
		t.Fatalf("expected nested choice on the left, got %s", kids[0].Local)
	}
}

func TestZeroOrMoreRewritesToChoiceOfOneOrMoreAndEmpty(t *testing.T) {
	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0"><zeroOrMore><text/></zeroOrMore></start>`)
	if err := applyStructuralRewrites(root); err != nil {
		t.Fatalf("applyStructuralRewrites: %v", err)
	}
	choice := elementChildren(root)[0]
	if choice.Local != elChoice {
		t.Fatalf("expected choice, got %s", choice.Local)
	}
	kids := elementChildren(choice)
	if kids[0].Local != elOneOrMore || kids[1].Local != elEmpty {
		t.Fatalf("expected oneOrMore/empty choice, got %+v", kids)
	}
}

func TestOptionalRewritesToChoiceWithEmpty(t *testing.T) {
	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0"><optional><text/></optional></start>`)
	if err := applyStructuralRewrites(root); err != nil {
		t.Fatalf("applyStructuralRewrites: %v", err)
	}
	choice := elementChildren(root)[0]
	kids := elementChildren(choice)
	if kids[0].Local != elText || kids[1].Local != elEmpty {
		t.Fatalf("expected text/empty choice, got %+v", kids)
	}
}

func TestMixedRewritesToInterleaveWithText(t *testing.T) {
	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0"><mixed><empty/></mixed></start>`)
	if err := applyStructuralRewrites(root); err != nil {
		t.Fatalf("applyStructuralRewrites: %v", err)
	}
	interleave := elementChildren(root)[0]
	if interleave.Local != elInterleave {
		t.Fatalf("expected interleave, got %s", interleave.Local)
	}
	kids := elementChildren(interleave)
	if kids[0].Local != elEmpty || kids[1].Local != elText {
		t.Fatalf("expected empty/text interleave, got %+v", kids)
	}
}

func TestAttributeWithOnlyNameClassGetsText(t *testing.T) {
	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0"><attribute><name ns="">foo</name></attribute></start>`)
	if err := applyStructuralRewrites(root); err != nil {
		t.Fatalf("applyStructuralRewrites: %v", err)
	}
	attr := elementChildren(root)[0]
	kids := elementChildren(attr)
	if len(kids) != 2 || kids[1].Local != elText {
		t.Fatalf("expected name class plus synthesized text, got %+v", kids)
	}
}

func TestReservedAttributeNameIsRejected(t *testing.T) {
	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0"><attribute><name ns="http://www.w3.org/2000/xmlns/">x</name></attribute></start>`)
	if err := applyStructuralRewrites(root); err == nil {
		t.Fatalf("expected a reserved attribute name error")
	}
}

func TestExceptWithMultipleChildrenFoldsIntoChoice(t *testing.T) {
	root := parseXML(t, `<start xmlns="http://relaxng.org/ns/structure/1.0">
  <anyName><except><name ns="">a</name><name ns="">b</name></except></anyName>
</start>`)
	if err := applyStructuralRewrites(root); err != nil {
		t.Fatalf("applyStructuralRewrites: %v", err)
	}
	anyName := elementChildren(root)[0]
	except := elementChildren(anyName)[0]
	kids := elementChildren(except)
	if len(kids) != 1 || kids[0].Local != elChoice {
		t.Fatalf("expected except's two names folded into one choice, got %+v", kids)
	}
}
