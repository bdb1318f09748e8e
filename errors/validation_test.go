package errors

import (
	"fmt"
	"testing"
)

func TestValidationErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		want string
		v    Validation
	}{
		{
			name: "message only",
			v:    Validation{Code: string(ErrElementNameError), Message: "element not allowed here"},
			want: "validation: [rnv-element-name] element not allowed here",
		},
		{
			name: "with path",
			v:    Validation{Code: string(ErrElementNameError), Message: "element not allowed here", Path: "/root/child"},
			want: "validation: [rnv-element-name] element not allowed here at /root/child",
		},
		{
			name: "with expected",
			v: Validation{
				Code:     string(ErrChoiceError),
				Message:  "unexpected element",
				Expected: []string{"a", "b"},
			},
			want: "validation: [rnv-choice] unexpected element (expected: a, b)",
		},
		{
			name: "with actual",
			v: Validation{
				Code:    string(ErrChoiceError),
				Message: "unexpected element",
				Actual:  "c",
			},
			want: "validation: [rnv-choice] unexpected element (actual: c)",
		},
		{
			name: "with all",
			v: Validation{
				Code:     string(ErrChoiceError),
				Message:  "unexpected element",
				Path:     "/root/child",
				Expected: []string{"a"},
				Actual:   "b",
			},
			want: "validation: [rnv-choice] unexpected element at /root/child (expected: a) (actual: b)",
		},
		{
			name: "schema error",
			v:    Validation{Code: string(ErrUnresolvedRef), Message: "ref has no matching define"},
			want: "schema: [rng-unresolved-ref] ref has no matching define",
		},
		{
			name: "xml parse error",
			v:    Validation{Code: string(ErrXMLParse), Message: "unexpected EOF"},
			want: "parse: [xml-parse-error] unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationRecoverable(t *testing.T) {
	recoverable := Validation{Code: string(ErrAttributeValueError)}
	if !recoverable.Recoverable() {
		t.Fatalf("Recoverable() = false for %q, want true", recoverable.Code)
	}

	fatal := Validation{Code: string(ErrSchemaValidation)}
	if fatal.Recoverable() {
		t.Fatalf("Recoverable() = true for %q, want false", fatal.Code)
	}

	var nilV *Validation
	if nilV.Recoverable() {
		t.Fatalf("Recoverable() = true for nil Validation, want false")
	}
}

func TestNewValidation(t *testing.T) {
	v := NewValidation(ErrNoRoot, "missing root", "/")
	if v.Code != string(ErrNoRoot) {
		t.Fatalf("Code = %q, want %q", v.Code, ErrNoRoot)
	}
	if v.Message != "missing root" {
		t.Fatalf("Message = %q, want %q", v.Message, "missing root")
	}
	if v.Path != "/" {
		t.Fatalf("Path = %q, want %q", v.Path, "/")
	}
}

func TestNewValidationf(t *testing.T) {
	v := NewValidationf(ErrElementNameError, "/root", "element %s not declared", "child")
	if v.Code != string(ErrElementNameError) {
		t.Fatalf("Code = %q, want %q", v.Code, ErrElementNameError)
	}
	if v.Message != "element child not declared" {
		t.Fatalf("Message = %q, want %q", v.Message, "element child not declared")
	}
	if v.Path != "/root" {
		t.Fatalf("Path = %q, want %q", v.Path, "/root")
	}
}

func TestValidationListError(t *testing.T) {
	one := Validation{Code: string(ErrElementNameError), Message: "missing element"}
	two := Validation{Code: string(ErrChoiceError), Message: "element is abstract"}

	tests := []struct {
		name string
		want string
		list ValidationList
	}{
		{
			name: "single",
			list: ValidationList{one},
			want: "validation: [rnv-element-name] missing element",
		},
		{
			name: "multiple",
			list: ValidationList{one, two},
			want: "validation: [rnv-element-name] missing element (and 1 more)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.list.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsValidations(t *testing.T) {
	list := ValidationList{
		{Code: string(ErrElementNameError), Message: "missing element"},
		{Code: string(ErrChoiceError), Message: "element is abstract"},
	}
	wrapped := fmt.Errorf("validation failed: %w", list)

	got, ok := AsValidations(wrapped)
	if !ok {
		t.Fatalf("AsValidations() ok = false, want true")
	}
	if len(got) != 2 {
		t.Fatalf("AsValidations() len = %d, want 2", len(got))
	}
	if got[0].Code != string(ErrElementNameError) || got[1].Code != string(ErrChoiceError) {
		t.Fatalf("AsValidations() codes = %v, want [%s %s]", []string{got[0].Code, got[1].Code}, ErrElementNameError, ErrChoiceError)
	}
}
