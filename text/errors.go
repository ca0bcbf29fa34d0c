package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrInvalidFont is returned when font data cannot be parsed.
	ErrInvalidFont = errors.New("text: invalid font data")

	// ErrNoFaces is returned when a shaper is created without faces.
	ErrNoFaces = errors.New("text: no faces")

	// ErrInvalidSize is returned for non-positive font sizes.
	ErrInvalidSize = errors.New("text: invalid font size")
)
