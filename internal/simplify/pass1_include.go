package simplify

import (
	"bytes"
	"context"
	"fmt"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/loader"
)

// Limits bounds pathological schemas; both fields are resource limits
// in the spirit of the teacher's CompileLimits, not correctness checks
// (a genuine include cycle is already rejected regardless of depth).
type Limits struct {
	MaxIncludeDepth   int
	MaxGrammarDefines int
}

// DefaultLimits matches what CompileOption defaults to when the caller
// does not set explicit limits.
var DefaultLimits = Limits{MaxIncludeDepth: 64, MaxGrammarDefines: 100000}

// resolveIncludes inlines every externalRef and include reachable from
// root, fetching referenced schemas through ld and detecting cycles by
// canonical URL along each inclusion chain.
func resolveIncludes(ctx context.Context, root *elementtree.Node, ld *loader.CoalescingLoader, baseURL string, limits Limits) error {
	return walkIncludes(ctx, root, ld, baseURL, 0, limits, map[string]bool{baseURL: true})
}

func walkIncludes(ctx context.Context, n *elementtree.Node, ld *loader.CoalescingLoader, baseURL string, depth int, limits Limits, visited map[string]bool) error {
	if depth > limits.MaxIncludeDepth {
		return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrUnresolvableResource, "include/externalRef nesting exceeds the configured depth limit", n.Path())}
	}
	for _, c := range append([]*elementtree.Node{}, n.Children...) {
		if c.Kind != elementtree.Element {
			continue
		}
		switch {
		case c.URI == NS && c.Local == elExternalRef:
			if err := resolveExternalRef(ctx, c, ld, baseURL, depth, limits, visited); err != nil {
				return err
			}
		case c.URI == NS && c.Local == elInclude:
			if err := resolveInclude(ctx, c, ld, baseURL, depth, limits, visited); err != nil {
				return err
			}
		default:
			if err := walkIncludes(ctx, c, ld, baseURL, depth, limits, visited); err != nil {
				return err
			}
		}
	}
	return nil
}

func fetchAndParse(ctx context.Context, n *elementtree.Node, ld *loader.CoalescingLoader, baseURL string, visited map[string]bool) (*elementtree.Node, string, map[string]bool, error) {
	href := n.AttributeValue("", atHref)
	if href == "" {
		return nil, "", nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "missing href attribute", n.Path())}
	}
	url := loader.ResolveRelative(baseURL, href)
	content, canon, err := ld.Load(ctx, url)
	if err != nil {
		return nil, "", nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrUnresolvableResource, fmt.Sprintf("%s: %v", url, err), n.Path())}
	}
	if visited[canon] {
		return nil, "", nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrIncludeCycle, fmt.Sprintf("%s is included from itself", canon), n.Path())}
	}
	nv := make(map[string]bool, len(visited)+1)
	for k := range visited {
		nv[k] = true
	}
	nv[canon] = true

	fetched, err := elementtree.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, "", nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrXMLParse, fmt.Sprintf("%s: %v", canon, err), n.Path())}
	}
	stripInsignificantWhitespace(fetched)
	return fetched, canon, nv, nil
}

func resolveExternalRef(ctx context.Context, n *elementtree.Node, ld *loader.CoalescingLoader, baseURL string, depth int, limits Limits, visited map[string]bool) error {
	fetched, canon, nv, err := fetchAndParse(ctx, n, ld, baseURL, visited)
	if err != nil {
		return err
	}
	if err := walkIncludes(ctx, fetched, ld, canon, depth+1, limits, nv); err != nil {
		return err
	}
	return n.ReplaceWith(fetched)
}

func resolveInclude(ctx context.Context, n *elementtree.Node, ld *loader.CoalescingLoader, baseURL string, depth int, limits Limits, visited map[string]bool) error {
	fetched, canon, nv, err := fetchAndParse(ctx, n, ld, baseURL, visited)
	if err != nil {
		return err
	}
	if fetched.URI != NS || fetched.Local != elGrammar {
		return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaValidation, "include href must resolve to a grammar element", n.Path())}
	}
	if err := walkIncludes(ctx, fetched, ld, canon, depth+1, limits, nv); err != nil {
		return err
	}

	defines, hasStart := collectOverrideDefines(n)
	merged := elementtree.NewElement("", elDiv, NS)
	graftNonOverridden(merged, fetched, defines, hasStart)
	merged.GrabChildren(n)
	return n.ReplaceWith(merged)
}

// collectOverrideDefines gathers the names an include element's own
// body redefines, looking through nested div wrappers.
func collectOverrideDefines(n *elementtree.Node) (defines map[string]bool, hasStart bool) {
	defines = make(map[string]bool)
	var walk func(x *elementtree.Node)
	walk = func(x *elementtree.Node) {
		for _, c := range elementChildren(x) {
			switch {
			case c.URI == NS && c.Local == elDefine:
				defines[c.AttributeValue("", atName)] = true
			case c.URI == NS && c.Local == elStart:
				hasStart = true
			case c.URI == NS && c.Local == elDiv:
				walk(c)
			}
		}
	}
	walk(n)
	return defines, hasStart
}

// graftNonOverridden appends clones of src's define/start descendants
// (through divs) into dst, skipping any the includer overrode.
func graftNonOverridden(dst, src *elementtree.Node, defines map[string]bool, hasStart bool) {
	for _, c := range elementChildren(src) {
		switch {
		case c.URI == NS && c.Local == elDefine && defines[c.AttributeValue("", atName)]:
			continue
		case c.URI == NS && c.Local == elStart && hasStart:
			continue
		case c.URI == NS && c.Local == elDiv:
			graftNonOverridden(dst, c, defines, hasStart)
		default:
			dst.Append(c.Clone())
		}
	}
}
