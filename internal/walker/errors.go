package walker

import (
	rngerrors "github.com/relaxng/rng/errors"
	"github.com/relaxng/rng/internal/namepattern"
)

func attributeNameError(ns, local string) rngerrors.Validation {
	return rngerrors.NewValidationf(rngerrors.ErrAttributeNameError, "", "attribute {%s}%s is not allowed here", ns, local)
}

func requiredAttributeError(nc namepattern.Pattern) rngerrors.Validation {
	return rngerrors.NewValidationf(rngerrors.ErrAttributeNameError, "", "required attribute %s is missing", nc.String())
}

func attributeValueError(ns, local, value string) rngerrors.Validation {
	return rngerrors.NewValidationf(rngerrors.ErrAttributeValueError, "", "value %q is not allowed for attribute {%s}%s", value, ns, local)
}

func elementNameError(ns, local string) rngerrors.Validation {
	return rngerrors.NewValidationf(rngerrors.ErrElementNameError, "", "element {%s}%s is not allowed here", ns, local)
}

func requiredElementError(nc namepattern.Pattern) rngerrors.Validation {
	return rngerrors.NewValidationf(rngerrors.ErrElementNameError, "", "required element %s is missing", nc.String())
}

func choiceError() rngerrors.Validation {
	return rngerrors.NewValidation(rngerrors.ErrChoiceError, "no branch of the choice matched", "")
}

func genericError(msg string) rngerrors.Validation {
	return rngerrors.NewValidation(rngerrors.ErrValidation, msg, "")
}
