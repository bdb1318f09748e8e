// Package rng compiles Relax NG schemas and validates XML documents
// against them: schema loader -> simplifier (internal/simplify) ->
// pooled runtime validator (internal/validator), mirroring the
// compile-once/validate-many shape of a from-scratch XML schema
// validator.
package rng

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"sync"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/pattern"
	"github.com/relaxng/rng/internal/simplify"
	"github.com/relaxng/rng/internal/validator"
	"github.com/relaxng/rng/internal/xmlevents"
)

// Engine compiles a schema once and validates many documents
// efficiently. It is safe for concurrent use by multiple goroutines.
type Engine struct {
	grammar *pattern.Grammar
	pool    sync.Pool
}

// Session holds per-document validator state. Sessions are not safe for
// concurrent use.
type Session struct {
	engine *Engine
	walker *validator.GrammarWalker
}

// CompileOption configures schema compilation.
type CompileOption interface{ apply(*compileOptions) }

// ValidateOption configures validation.
type ValidateOption interface{ apply(*validateOptions) }

// Limits bounds schema compilation against pathological schema graphs,
// the Relax NG analogue of the teacher's CompileLimits
// (MaxDFAStates/MaxOccursLimit).
type Limits struct {
	MaxIncludeDepth   int
	MaxGrammarDefines int
}

type compileOptions struct {
	fsys     fs.FS
	resolver Resolver
	baseURL  string
	limits   Limits
}

type validateOptions struct {
	resolver validator.NameResolver
}

type compileOptionFunc func(*compileOptions)

func (f compileOptionFunc) apply(cfg *compileOptions) {
	if cfg == nil {
		return
	}
	f(cfg)
}

type validateOptionFunc func(*validateOptions)

func (f validateOptionFunc) apply(cfg *validateOptions) {
	if cfg == nil {
		return
	}
	f(cfg)
}

// WithResolver sets the Resolver externalRef/include hrefs are fetched
// through.
func WithResolver(r Resolver) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.resolver = r
	})
}

// WithFS overrides the filesystem CompileFS/CompileSchema resolve
// relative hrefs against, when no explicit Resolver is given.
func WithFS(fsys fs.FS) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.fsys = fsys
	})
}

// WithBaseURL sets the canonical location CompileSchema's document is
// considered to have, for resolving any relative hrefs it contains.
func WithBaseURL(base string) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.baseURL = base
	})
}

// WithLimits sets compilation resource limits.
func WithLimits(l Limits) CompileOption {
	return compileOptionFunc(func(cfg *compileOptions) {
		cfg.limits = l
	})
}

// WithNameResolver supplies the XML namespace-prefix resolver a
// validation run tracks scopes with. The default resolves "xml" and
// "xmlns" and nothing else until the document itself declares prefixes.
func WithNameResolver(r validator.NameResolver) ValidateOption {
	return validateOptionFunc(func(cfg *validateOptions) {
		cfg.resolver = r
	})
}

// CompileFS compiles the schema rooted at root within fsys.
func CompileFS(fsys fs.FS, root string, opts ...CompileOption) (*Engine, error) {
	cfg := applyCompileOptions(opts)
	if cfg.fsys != nil {
		fsys = cfg.fsys
	}
	if fsys == nil && cfg.resolver == nil {
		return nil, fmt.Errorf("compile schema: nil fs")
	}

	content, err := fs.ReadFile(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", root, err)
	}

	resolver := cfg.resolver
	if resolver == nil {
		resolver = &FSResolver{FS: fsys}
	}
	return compile(content, resolver, root, cfg.limits)
}

// CompileSchema compiles a schema read from r. A document with no
// externalRef/include needs no Resolver; one that does must supply
// WithResolver or WithFS.
func CompileSchema(r io.Reader, opts ...CompileOption) (*Engine, error) {
	if r == nil {
		return nil, fmt.Errorf("compile schema: nil reader")
	}
	cfg := applyCompileOptions(opts)
	baseURL := cfg.baseURL
	if baseURL == "" {
		baseURL = "schema.rng"
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	resolver := cfg.resolver
	switch {
	case resolver != nil:
	case cfg.fsys != nil:
		resolver = &FSResolver{FS: cfg.fsys}
	default:
		resolver = unconfiguredResolver{}
	}
	return compile(content, resolver, baseURL, cfg.limits)
}

func compile(content []byte, resolver Resolver, baseURL string, limits Limits) (*Engine, error) {
	root, err := elementtree.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", baseURL, err)
	}
	g, err := simplify.Simplify(context.Background(), root, resolver, baseURL, simplifyLimits(limits))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", baseURL, err)
	}
	return newEngine(g), nil
}

func simplifyLimits(l Limits) simplify.Limits {
	out := simplify.DefaultLimits
	if l.MaxIncludeDepth != 0 {
		out.MaxIncludeDepth = l.MaxIncludeDepth
	}
	if l.MaxGrammarDefines != 0 {
		out.MaxGrammarDefines = l.MaxGrammarDefines
	}
	return out
}

// Validate validates a document using a pooled session.
func (e *Engine) Validate(r io.Reader, opts ...ValidateOption) error {
	if e == nil || e.grammar == nil {
		return schemaNotLoadedError()
	}
	if r == nil {
		return nilReaderError()
	}

	cfg := applyValidateOptions(opts)
	session := e.acquire(cfg.resolver)
	errs, err := xmlevents.Validate(r, session)
	e.release(session)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return rngerrors.ValidationList(errs)
	}
	return nil
}

// NewSession returns a new, unpooled session bound to this engine, for
// callers that validate many documents from a single goroutine and want
// to skip the pool's lock traffic.
func (e *Engine) NewSession() *Session {
	if e == nil {
		return nil
	}
	return &Session{
		engine: e,
		walker: validator.New(e.grammar, nil),
	}
}

// Validate validates a document using this session.
func (s *Session) Validate(r io.Reader, opts ...ValidateOption) error {
	if s == nil || s.engine == nil || s.engine.grammar == nil {
		return schemaNotLoadedError()
	}
	if r == nil {
		return nilReaderError()
	}
	cfg := applyValidateOptions(opts)
	if cfg.resolver != nil {
		s.walker = validator.New(s.engine.grammar, cfg.resolver)
	}
	errs, err := xmlevents.Validate(r, s.walker)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return rngerrors.ValidationList(errs)
	}
	return nil
}

// Reset clears per-document session state so the session can validate
// its next document from scratch.
func (s *Session) Reset() {
	if s == nil || s.walker == nil {
		return
	}
	s.walker.Reset()
}

func newEngine(g *pattern.Grammar) *Engine {
	e := &Engine{grammar: g}
	e.pool.New = func() any {
		return validator.New(g, nil)
	}
	return e
}

func (e *Engine) acquire(resolver validator.NameResolver) *validator.GrammarWalker {
	if e == nil {
		return nil
	}
	if resolver != nil {
		return validator.New(e.grammar, resolver)
	}
	if v := e.pool.Get(); v != nil {
		return v.(*validator.GrammarWalker)
	}
	return validator.New(e.grammar, nil)
}

func (e *Engine) release(w *validator.GrammarWalker) {
	if e == nil || w == nil {
		return
	}
	w.Reset()
	e.pool.Put(w)
}

func applyCompileOptions(opts []CompileOption) compileOptions {
	var cfg compileOptions
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}

func applyValidateOptions(opts []ValidateOption) validateOptions {
	var cfg validateOptions
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}

func schemaNotLoadedError() error {
	return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrSchemaNotLoaded, "schema not loaded", "")}
}

func nilReaderError() error {
	return rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrXMLParse, "nil reader", "")}
}

type unconfiguredResolver struct{}

func (unconfiguredResolver) Resolve(context.Context, string) ([]byte, string, error) {
	return nil, "", fmt.Errorf("rng: no resolver configured for externalRef/include (use WithResolver or WithFS)")
}
