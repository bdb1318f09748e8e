// Command rnglint validates an XML document against a Relax NG schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/relaxng/rng/internal/codec"
	"github.com/relaxng/rng/internal/elementtree"
	"github.com/relaxng/rng/internal/loader"
	"github.com/relaxng/rng/internal/simplify"
	"github.com/relaxng/rng/internal/validator"
	"github.com/relaxng/rng/internal/xmlevents"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rnglint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	schemaPath := fs.String("schema", "", "path to Relax NG schema file")
	jsonFlag := fs.Bool("json", false, "emit the compiled grammar as JSON instead of validating")
	explainFlag := fs.Bool("explain", false, "on validation failure, print what events would have been accepted")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s --schema <schema.rng> [--json | --explain] <document.xml>\n\n", os.Args[0])
		fmt.Fprintln(stderr, "Validates an XML document against a Relax NG schema.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 3
	}

	if *schemaPath == "" {
		if err := writeln(stderr, "error: --schema is required"); err != nil {
			return 3
		}
		fs.Usage()
		return 3
	}

	schemaFile, err := os.Open(*schemaPath)
	if err != nil {
		if writeErr := writef(stderr, "error opening schema: %v\n", err); writeErr != nil {
			return 3
		}
		return 3
	}
	defer schemaFile.Close()

	root, err := elementtree.Parse(schemaFile)
	if err != nil {
		if writeErr := writef(stderr, "error parsing schema: %v\n", err); writeErr != nil {
			return 3
		}
		return 1
	}
	schemaDir, schemaBase := filepath.Split(*schemaPath)
	if schemaDir == "" {
		schemaDir = "."
	}
	resolver := &loader.FSResolver{FS: os.DirFS(schemaDir)}
	grammar, err := simplify.Simplify(context.Background(), root, resolver, schemaBase, simplify.DefaultLimits)
	if err != nil {
		if writeErr := writef(stderr, "error compiling schema: %v\n", err); writeErr != nil {
			return 3
		}
		return 1
	}

	if *jsonFlag {
		if err := codec.WriteGrammar(stdout, grammar); err != nil {
			if writeErr := writef(stderr, "error encoding grammar: %v\n", err); writeErr != nil {
				return 3
			}
			return 1
		}
		return 0
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		if err := writeln(stderr, "error: exactly one XML file argument is required"); err != nil {
			return 3
		}
		fs.Usage()
		return 3
	}
	xmlPath := remaining[0]

	xmlFile, err := os.Open(xmlPath)
	if err != nil {
		if writeErr := writef(stderr, "error opening document: %v\n", err); writeErr != nil {
			return 3
		}
		return 3
	}
	defer xmlFile.Close()

	if *explainFlag {
		diag, possible, found, err := xmlevents.Explain(xmlFile, validator.New(grammar, nil))
		if err != nil {
			if writeErr := writef(stderr, "error validating: %v\n", err); writeErr != nil {
				return 3
			}
			return 1
		}
		if !found {
			if err := writef(stdout, "%s validates\n", xmlPath); err != nil {
				return 3
			}
			return 0
		}
		if err := writeln(stderr, diag.Error()); err != nil {
			return 3
		}
		for _, p := range possible {
			if err := writef(stderr, "  would have accepted: %s\n", p.String()); err != nil {
				return 3
			}
		}
		return 2
	}

	errs, err := xmlevents.Validate(xmlFile, validator.New(grammar, nil))
	if err != nil {
		if writeErr := writef(stderr, "error validating: %v\n", err); writeErr != nil {
			return 3
		}
		return 1
	}
	if len(errs) > 0 {
		for _, v := range errs {
			if writeErr := writeln(stderr, v.Error()); writeErr != nil {
				return 3
			}
		}
		if writeErr := writef(stderr, "%s fails to validate\n", xmlPath); writeErr != nil {
			return 3
		}
		return 2
	}

	if err := writef(stdout, "%s validates\n", xmlPath); err != nil {
		return 3
	}
	return 0
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
