// Package loader resolves externalRef/include URLs to schema text. It
// supplies the Resolver interface §6 calls a "resource loader", a
// default filesystem-backed implementation, and a coalescing wrapper
// so concurrent compiles of overlapping schema graphs share a single
// in-flight fetch of each resource (a request made after that fetch
// has finished fetches again; results are not cached).
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"path"

	"golang.org/x/sync/singleflight"
)

// Resolver loads the raw text of a schema resource named by url,
// returning its canonical URL for resolving further relative
// references found within it.
type Resolver interface {
	Resolve(ctx context.Context, url string) (content []byte, canonicalURL string, err error)
}

// FSResolver reads resources from FS, resolving relative hrefs against
// the directory of Base (a path inside FS).
type FSResolver struct {
	FS   fs.FS
	Base string
}

func (f *FSResolver) Resolve(ctx context.Context, url string) ([]byte, string, error) {
	resolved := ResolveRelative(f.Base, url)
	data, err := fs.ReadFile(f.FS, resolved)
	if err != nil {
		return nil, "", fmt.Errorf("loader: %s: %w", resolved, err)
	}
	return data, resolved, nil
}

// ResolveRelative joins an href found in a document whose own canonical
// location is base, using the same "relative to the containing
// document" rule for every Resolver implementation (FSResolver today;
// an HTTP- or embed-backed Resolver would reuse it identically).
func ResolveRelative(base, url string) string {
	if path.IsAbs(url) {
		return path.Clean(url[1:])
	}
	if base == "" {
		return path.Clean(url)
	}
	return path.Join(path.Dir(base), url)
}

// result holds singleflight.Group's return value for one Load.
type result struct {
	content      []byte
	canonicalURL string
}

// CoalescingLoader deduplicates concurrent fetches of the same URL
// across goroutines compiling overlapping schema graphs.
type CoalescingLoader struct {
	Resolver Resolver
	group    singleflight.Group
}

func New(r Resolver) *CoalescingLoader {
	return &CoalescingLoader{Resolver: r}
}

func (l *CoalescingLoader) Load(ctx context.Context, url string) ([]byte, string, error) {
	v, err, _ := l.group.Do(url, func() (any, error) {
		content, canon, err := l.Resolver.Resolve(ctx, url)
		if err != nil {
			return nil, err
		}
		return result{content: content, canonicalURL: canon}, nil
	})
	if err != nil {
		return nil, "", err
	}
	r := v.(result)
	return r.content, r.canonicalURL, nil
}
