package params

import (
	"errors"
	"fmt"
)

// Sentinel errors for parameter handling.
var (
	// ErrUnsupportedType is matched by errors for raw values New cannot convert.
	ErrUnsupportedType = errors.New("unsupported parameter type")

	// ErrInvalidJSON is returned when a JSON document is not an object.
	ErrInvalidJSON = errors.New("invalid params JSON")

	// ErrNoResolver is returned when a form selector is given without a resolver.
	ErrNoResolver = errors.New("no form resolver")
)

// UnsupportedTypeError reports a raw value of a shape Params cannot read.
type UnsupportedTypeError struct {
	// Value is the offending raw value.
	Value any
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported parameter type %T: %v", e.Value, e.Value)
}

// Is allows errors.Is to match UnsupportedTypeError with ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}
