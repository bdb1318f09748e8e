package rng

import "github.com/relaxng/rng/internal/loader"

// Resolver loads the raw text of a schema resource referenced by an
// externalRef or include href, returning its canonical URL for
// resolving further relative references found within it.
type Resolver = loader.Resolver

// FSResolver reads resources from FS, resolving relative hrefs against
// the directory of Base (a path inside FS).
type FSResolver = loader.FSResolver
