// Package xmlevents is the reference XMLEventSource: a thin adapter
// from an encoding/xml token stream to the enterStartTag/attributeName/
// text/endTag vocabulary internal/validator consumes. Relax NG document
// parsing is deliberately out of this module's core (spec.md assumes
// "an event-producing XML parser is assumed available"); this package
// is the bridge, not a competing tokenizer.
package xmlevents

import (
	"encoding/xml"
	"fmt"
	"io"

	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
	"github.com/relaxng/rng/internal/validator"
	"github.com/relaxng/rng/internal/walker"
)

// run drives every token from r through gw, calling onResult with the
// result of each fired event. onResult returning stop=true ends the
// pass early (Explain's use). It reports whether a root element was
// ever seen.
func run(r io.Reader, gw *validator.GrammarWalker, onResult func(validator.FireResult) (stop bool)) (sawRoot bool, err error) {
	dec := xml.NewDecoder(r)

	for {
		tok, tokErr := dec.Token()
		if tokErr == io.EOF {
			break
		}
		if tokErr != nil {
			return sawRoot, fmt.Errorf("xmlevents: %w", tokErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			gw.EnterContext()
			for _, a := range t.Attr {
				if prefix, uri, ok := xmlnsDecl(a); ok {
					gw.DefinePrefix(prefix, uri)
				}
			}
			attrs := make([]walker.Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				if _, _, ok := xmlnsDecl(a); ok {
					continue
				}
				attrs = append(attrs, walker.Attr{NS: a.Name.Space, Local: a.Name.Local, Value: a.Value})
			}
			res, fireErr := gw.FireEvent(walker.StartTagAndAttributes(t.Name.Space, t.Name.Local, attrs))
			if fireErr != nil {
				return sawRoot, fireErr
			}
			if onResult(res) {
				return sawRoot, nil
			}

		case xml.EndElement:
			res, fireErr := gw.FireEvent(walker.EndTag(t.Name.Space, t.Name.Local))
			if fireErr != nil {
				return sawRoot, fireErr
			}
			if onResult(res) {
				return sawRoot, nil
			}
			gw.LeaveContext()

		case xml.CharData:
			if len(t) == 0 {
				continue
			}
			res, fireErr := gw.FireEvent(walker.Text(string(t)))
			if fireErr != nil {
				return sawRoot, fireErr
			}
			if onResult(res) {
				return sawRoot, nil
			}
		}
	}
	return sawRoot, nil
}

// Validate drives every token from r through gw and reports the
// accumulated diagnostics. A non-nil error means the XML itself could
// not be tokenized, or the walker hit an internal invariant violation;
// schema-violation diagnostics are returned as the []rngerrors.Validation
// result instead, exactly as internal/validator reports them.
func Validate(r io.Reader, gw *validator.GrammarWalker) ([]rngerrors.Validation, error) {
	var errs []rngerrors.Validation
	sawRoot, err := run(r, gw, func(res validator.FireResult) bool {
		errs = append(errs, res.Errors...)
		return false
	})
	if err != nil {
		return nil, err
	}
	if !sawRoot {
		return nil, rngerrors.ValidationList{rngerrors.NewValidation(rngerrors.ErrNoRoot, "document has no root element", "")}
	}
	errs = append(errs, gw.End()...)
	return errs, nil
}

// Explain drives r through gw exactly like Validate, but stops at the
// first reported diagnostic and reports what gw.Possible() would have
// accepted at that point instead of continuing through the whole
// document. Used by the CLI's --explain flag (§9's supplemented
// feature); ordinary validation keeps using Validate's recover-and-
// continue behavior.
func Explain(r io.Reader, gw *validator.GrammarWalker) (diag rngerrors.Validation, possible []namepattern.Pattern, found bool, err error) {
	_, err = run(r, gw, func(res validator.FireResult) bool {
		if len(res.Errors) > 0 {
			diag, found = res.Errors[0], true
			if res.Possible != nil {
				possible = res.Possible
			} else {
				possible = gw.Possible()
			}
			return true
		}
		return false
	})
	if err != nil || found {
		return diag, possible, found, err
	}
	if errs := gw.End(); len(errs) > 0 {
		return errs[0], gw.Possible(), true, nil
	}
	return rngerrors.Validation{}, nil, false, nil
}

// xmlnsDecl reports whether a is a namespace declaration (either the
// default "xmlns" or a prefixed "xmlns:foo"), and if so the prefix it
// binds ("" for the default namespace) and the URI.
func xmlnsDecl(a xml.Attr) (prefix, uri string, ok bool) {
	switch {
	case a.Name.Space == "xmlns":
		return a.Name.Local, a.Value, true
	case a.Name.Space == "" && a.Name.Local == "xmlns":
		return "", a.Value, true
	default:
		return "", "", false
	}
}
