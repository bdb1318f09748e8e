package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies the kind of failure a Validation describes.
type ErrorCode string

const (
	// ErrNoRoot indicates the XML document has no root element.
	ErrNoRoot ErrorCode = "rng-no-root"
	// ErrSchemaNotLoaded indicates validation was attempted without a compiled grammar.
	ErrSchemaNotLoaded ErrorCode = "rng-schema-not-loaded"
	// ErrXMLParse indicates the XML document could not be parsed.
	ErrXMLParse ErrorCode = "xml-parse-error"
	// ErrInternal indicates a programmer-error invariant was violated.
	ErrInternal ErrorCode = "rng-internal"

	// ErrSchemaValidation is the generic static-schema-error code; the
	// simplification pipeline aborts when it is raised.
	ErrSchemaValidation ErrorCode = "rng-schema-invalid"
	// ErrUnresolvedRef indicates a ref has no matching define.
	ErrUnresolvedRef ErrorCode = "rng-unresolved-ref"
	// ErrUnresolvableResource indicates an externalRef/include could not be loaded.
	ErrUnresolvableResource ErrorCode = "rng-unresolvable-resource"
	// ErrNotAllowedStart indicates the grammar's start pattern reduced to notAllowed.
	ErrNotAllowedStart ErrorCode = "rng-not-allowed-start"
	// ErrInvalidExceptNesting indicates an except clause nests a disallowed name class.
	ErrInvalidExceptNesting ErrorCode = "rng-invalid-except-nesting"
	// ErrReservedAttributeName indicates an attribute is named in the xmlns namespace.
	ErrReservedAttributeName ErrorCode = "rng-reserved-attribute-name"
	// ErrIllegalSelfReference indicates a non-element define recursively refers to itself.
	ErrIllegalSelfReference ErrorCode = "rng-illegal-self-reference"
	// ErrIncludeCycle indicates include/externalRef resolution found a cycle.
	ErrIncludeCycle ErrorCode = "rng-include-cycle"
	// ErrMultipleStart indicates more than one start pattern without combine semantics.
	ErrMultipleStart ErrorCode = "rng-multiple-start"
	// ErrMultipleDefine indicates more than one define of the same name without combine semantics.
	ErrMultipleDefine ErrorCode = "rng-multiple-define"

	// ErrElementNameError indicates an element was not allowed at its location.
	// Recoverable: the driver continues in misplaced-element mode.
	ErrElementNameError ErrorCode = "rnv-element-name"
	// ErrAttributeNameError indicates an attribute was not allowed at its location.
	// Recoverable: the next attributeValue event is swallowed.
	ErrAttributeNameError ErrorCode = "rnv-attribute-name"
	// ErrAttributeValueError indicates an attribute value failed its pattern.
	ErrAttributeValueError ErrorCode = "rnv-attribute-value"
	// ErrChoiceError indicates none of a choice's branches accepted an event.
	ErrChoiceError ErrorCode = "rnv-choice"
	// ErrValidation is the generic recoverable validation-error code.
	ErrValidation ErrorCode = "rnv-validation"
)

// Validation describes a single schema or validation error, with a
// stable error code and optional location context.
//
// The Code prefix carries meaning: "rng-" codes are schema failures
// from the simplification pipeline (the grammar never compiled) plus
// the few failures that stop a validation call outright (no compiled
// schema, no root element, an internal invariant violation); "rnv-"
// codes are recoverable findings the walker collected while still
// making its way through a document; and "xml-" codes mean an input
// could not be read as XML. Recoverable reports whether a given
// Validation is an "rnv-" finding.
//
//nolint:errname // public API name uses Relax NG domain terminology.
type Validation struct {
	Code     string
	Message  string
	Path     string
	Actual   string
	Expected []string
	Line     int
	Column   int
}

// ValidationList is an error that wraps one or more validation errors.
type ValidationList []Validation //nolint:errname // public API name, keep for compatibility.

// Error returns a compact summary of the validation errors. A list
// mixing schema and document errors can't happen in practice: the
// simplification pipeline stops at the first rng-* failure, so a
// ValidationList longer than one is always a run of rnv-* findings
// from a single document walk.
func (v ValidationList) Error() string {
	switch len(v) {
	case 0:
		return "no validation errors"
	case 1:
		return v[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", v[0].Error(), len(v)-1)
	}
}

// Recoverable reports whether v is an rnv-* document-validation finding
// rather than an rng-*/xml-* failure that stopped compilation or
// validation outright.
func (v *Validation) Recoverable() bool {
	return v != nil && strings.HasPrefix(v.Code, "rnv-")
}

// category labels v for Error()'s leading tag.
func (v *Validation) category() string {
	switch {
	case strings.HasPrefix(v.Code, "rnv-"):
		return "validation"
	case strings.HasPrefix(v.Code, "xml-"):
		return "parse"
	default:
		return "schema"
	}
}

// Error formats the validation for display: a category tag distinguishing
// schema/parse failures from recoverable validation findings, the code,
// the message, and whatever location context is available.
func (v *Validation) Error() string {
	if v == nil {
		return "validation <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: [%s] %s", v.category(), v.Code, v.Message))
	if v.Path != "" {
		b.WriteString(fmt.Sprintf(" at %s", v.Path))
	}
	if v.Line > 0 && v.Column > 0 {
		if v.Path == "" {
			b.WriteString(fmt.Sprintf(" at line %d, column %d", v.Line, v.Column))
		} else {
			b.WriteString(fmt.Sprintf(" (line %d, column %d)", v.Line, v.Column))
		}
	}
	if len(v.Expected) > 0 {
		b.WriteString(fmt.Sprintf(" (expected: %s)", strings.Join(v.Expected, ", ")))
	}
	if v.Actual != "" {
		b.WriteString(fmt.Sprintf(" (actual: %s)", v.Actual))
	}
	return b.String()
}

// NewValidation builds a Validation with a code, message, and optional path.
func NewValidation(code ErrorCode, msg, path string) Validation {
	return Validation{Code: string(code), Message: msg, Path: path}
}

// NewValidationf formats a message and builds a Validation.
func NewValidationf(code ErrorCode, path, format string, args ...any) Validation {
	return NewValidation(code, fmt.Sprintf(format, args...), path)
}

// AsValidations extracts validation errors from an error returned by validation helpers.
func AsValidations(err error) ([]Validation, bool) {
	list, ok := asValidationList(err)
	if !ok {
		return nil, false
	}
	return []Validation(list), true
}

func asValidationList(err error) (ValidationList, bool) {
	if err == nil {
		return nil, false
	}
	var list ValidationList
	if errors.As(err, &list) {
		return list, true
	}

	var listPtr *ValidationList
	if errors.As(err, &listPtr) && listPtr != nil {
		return *listPtr, true
	}

	return nil, false
}
