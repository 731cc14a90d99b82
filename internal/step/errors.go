package step

import (
	"errors"
	"fmt"
)

// ValidationError reports the first field of a step payload that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
