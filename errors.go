package relmap

import (
	"errors"
	"fmt"
)

// ErrInvalidMapping is returned by Mapping when called with a nil builder.
// Calling Mapping without a definition is a programming error in the host,
// not a recoverable condition.
var ErrInvalidMapping = errors.New("mapping requires a definition builder")

// ErrNoMapping is returned by Load when no mapping has been defined.
var ErrNoMapping = errors.New("no mapping defined: call Mapping before Load")

// MissingFieldError reports an adapter registration missing a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("adapter registration missing required field %q", e.Field)
}
