package raster

import "errors"

var (
	// ErrUnsupportedFace is returned when a face does not expose outlines.
	ErrUnsupportedFace = errors.New("raster: face has no outlines")

	// ErrNoOutline is returned when a glyph outline cannot be loaded.
	ErrNoOutline = errors.New("raster: glyph outline unavailable")

	// ErrGlyphRange is returned for soft font glyphs outside the pattern.
	ErrGlyphRange = errors.New("raster: glyph out of range")
)
