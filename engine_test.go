package rng_test

import (
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/relaxng/rng"
	rngerrors "github.com/relaxng/rng/errors"
)

const rngNS = `xmlns="http://relaxng.org/ns/structure/1.0"`

func TestCompileSchemaValidatesDocument(t *testing.T) {
	schema := `<element ` + rngNS + ` name="root"><oneOrMore><element name="item"><text/></element></oneOrMore></element>`
	engine, err := rng.CompileSchema(strings.NewReader(schema))
	if err != nil {
		t.Fatalf("CompileSchema: %v", err)
	}

	if err := engine.Validate(strings.NewReader(`<root><item>1</item><item>2</item></root>`)); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	err = engine.Validate(strings.NewReader(`<root/>`))
	if err == nil {
		t.Fatalf("expected a validation error for an empty root")
	}
	violations, ok := rngerrors.AsValidations(err)
	if !ok || len(violations) == 0 {
		t.Fatalf("expected a ValidationList, got %v", err)
	}
}

func TestCompileFSResolvesIncludes(t *testing.T) {
	fsys := fstest.MapFS{
		"main.rng": &fstest.MapFile{Data: []byte(`<grammar ` + rngNS + `>
  <start><ref name="root"/></start>
  <include href="shared.rng"/>
</grammar>`)},
		"shared.rng": &fstest.MapFile{Data: []byte(`<grammar ` + rngNS + `>
  <define name="root"><element name="root"><empty/></element></define>
</grammar>`)},
	}

	engine, err := rng.CompileFS(fsys, "main.rng")
	if err != nil {
		t.Fatalf("CompileFS: %v", err)
	}
	if err := engine.Validate(strings.NewReader(`<root/>`)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSessionValidatesManyDocuments(t *testing.T) {
	schema := `<element ` + rngNS + ` name="root"><empty/></element>`
	engine, err := rng.CompileSchema(strings.NewReader(schema))
	if err != nil {
		t.Fatalf("CompileSchema: %v", err)
	}

	session := engine.NewSession()
	for i := 0; i < 3; i++ {
		if err := session.Validate(strings.NewReader(`<root/>`)); err != nil {
			t.Fatalf("Validate #%d: %v", i, err)
		}
		session.Reset()
	}
}

func TestEngineValidateConcurrent(t *testing.T) {
	schema := `<element ` + rngNS + ` name="root"><oneOrMore><element name="item"><text/></element></oneOrMore></element>`
	engine, err := rng.CompileSchema(strings.NewReader(schema))
	if err != nil {
		t.Fatalf("CompileSchema: %v", err)
	}
	doc := `<root><item>1</item><item>2</item><item>3</item></root>`

	const goroutines = 8
	const iterations = 25

	errCh := make(chan error, goroutines*iterations)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				if err := engine.Validate(strings.NewReader(doc)); err != nil {
					errCh <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Fatalf("concurrent Validate error: %v", err)
	}
}
