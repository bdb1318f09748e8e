package simplify

import (
	"context"

	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/loader"
	"github.com/relaxng/rng/internal/pattern"
)

// Simplify runs the full §4.C pipeline over root (the parsed document's
// root element) and returns the linked, runtime-ready Grammar. baseURL
// is root's own canonical location, used to resolve any relative hrefs
// it contains.
func Simplify(ctx context.Context, root *elementtree.Node, resolver loader.Resolver, baseURL string, limits Limits) (*pattern.Grammar, error) {
	stripInsignificantWhitespace(root)
	grammarEl := wrapShorthandRoot(root)

	ld := loader.New(resolver)
	if err := resolveIncludes(ctx, grammarEl, ld, baseURL, limits); err != nil {
		return nil, err
	}

	normalizeNamespaces(grammarEl, nsContext{})

	if err := applyStructuralRewrites(grammarEl); err != nil {
		return nil, err
	}

	counter := 0
	if err := flattenGrammar(grammarEl, &counter, limits); err != nil {
		return nil, err
	}

	if err := normalizeDefineRef(grammarEl, &counter); err != nil {
		return nil, err
	}

	if err := propagateNotAllowedAndEmpty(grammarEl); err != nil {
		return nil, err
	}

	return emit(grammarEl)
}

// wrapShorthandRoot implements Relax NG's "a non-grammar root pattern P
// is shorthand for <grammar><start>P</start></grammar>" rule.
func wrapShorthandRoot(root *elementtree.Node) *elementtree.Node {
	if root.URI == NS && root.Local == elGrammar {
		return root
	}
	grammar := elementtree.NewElement("", elGrammar, NS)
	start := elementtree.NewElement("", elStart, NS)
	start.Append(root)
	grammar.Append(start)
	return grammar
}
