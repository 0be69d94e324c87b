package codec

import "errors"

// Codec failure kinds. Encode reports ErrArityMismatch, ErrTypeMismatch
// and ErrValueOutOfRange; decode reports ErrTruncatedInput and
// ErrTypeMismatch.
var (
	// ErrTruncatedInput is returned when the message body is shorter
	// than its schema demands.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrTypeMismatch is returned when an encoded tag or a supplied
	// value does not match the expected type variant.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrArityMismatch is returned when the number of supplied values
	// differs from the number of declared parameters.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrValueOutOfRange is returned when a numeric value exceeds its
	// declared bit width or a sized value its declared length.
	ErrValueOutOfRange = errors.New("value out of range")
)
