package atlas

import "errors"

var (
	// ErrExhausted is returned by Allocate when the rectangle does not fit.
	ErrExhausted = errors.New("atlas: exhausted")

	// ErrInvalidSize is returned for non-positive sizes and for Resize
	// calls that would shrink the packer.
	ErrInvalidSize = errors.New("atlas: invalid size")
)
