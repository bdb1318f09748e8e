package loader

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"
)

func TestFSResolverResolvesRelativeHref(t *testing.T) {
	fsys := fstest.MapFS{
		"schemas/root.rng":   {Data: []byte("root")},
		"schemas/common.rng": {Data: []byte("common")},
	}
	r := &FSResolver{FS: fsys, Base: "schemas/root.rng"}

	data, canon, err := r.Resolve(context.Background(), "common.rng")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(data) != "common" {
		t.Fatalf("got %q, want %q", data, "common")
	}
	if canon != "schemas/common.rng" {
		t.Fatalf("canonicalURL = %q, want schemas/common.rng", canon)
	}
}

func TestFSResolverMissingFile(t *testing.T) {
	r := &FSResolver{FS: fstest.MapFS{}, Base: "root.rng"}
	if _, _, err := r.Resolve(context.Background(), "missing.rng"); err == nil {
		t.Fatalf("expected an error for a missing resource")
	}
}

type countingResolver struct {
	calls atomic.Int32
}

func (c *countingResolver) Resolve(ctx context.Context, url string) ([]byte, string, error) {
	c.calls.Add(1)
	time.Sleep(50 * time.Millisecond) // keep the fetch in flight so the concurrent loads overlap
	return []byte(url), url, nil
}

func TestCoalescingLoaderDedupsConcurrentFetches(t *testing.T) {
	cr := &countingResolver{}
	l := New(cr)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := l.Load(context.Background(), "shared.rng"); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := cr.calls.Load(); got != 1 {
		t.Fatalf("resolver called %d times, want 1", got)
	}
}
