package validator

import rngerrors "github.com/relaxng/rng/errors"

func elementNameError(ns, local string) rngerrors.Validation {
	return rngerrors.NewValidationf(rngerrors.ErrElementNameError, "", "element {%s}%s is not allowed here", ns, local)
}

func genericError(msg string) rngerrors.Validation {
	return rngerrors.NewValidation(rngerrors.ErrValidation, msg, "")
}
