package budget

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the only failure Evaluate reports. Use errors.Is to test
// for it; the concrete error is an *InvalidInputError naming the field.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError describes which AssetInput field was rejected.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) succeed.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...interface{}) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
