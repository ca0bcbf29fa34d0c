package termatlas

import "fmt"

// Generation is a monotonically increasing version stamp. An unchanged
// generation guarantees that the resource derived from it is current.
type Generation uint64

// LineRendition selects how a terminal row is scaled.
type LineRendition uint8

const (
	// SingleWidth is the normal rendition.
	SingleWidth LineRendition = iota
	// DoubleWidth doubles every cell horizontally.
	DoubleWidth
	// DoubleHeightTop draws the upper half of double-width, double-height glyphs.
	DoubleHeightTop
	// DoubleHeightBottom draws the lower half of double-width, double-height glyphs.
	DoubleHeightBottom
)

// String returns the rendition name.
func (r LineRendition) String() string {
	switch r {
	case SingleWidth:
		return "SingleWidth"
	case DoubleWidth:
		return "DoubleWidth"
	case DoubleHeightTop:
		return "DoubleHeightTop"
	case DoubleHeightBottom:
		return "DoubleHeightBottom"
	default:
		return fmt.Sprintf("LineRendition(%d)", uint8(r))
	}
}

// IsDoubleHeight reports whether r is one of the double-height halves.
func (r LineRendition) IsDoubleHeight() bool {
	return r == DoubleHeightTop || r == DoubleHeightBottom
}

// WidthShift returns 1 for renditions that double the cell width and 0
// otherwise. Cell columns are shifted left by this amount to get pixels.
func (r LineRendition) WidthShift() uint {
	if r == SingleWidth {
		return 0
	}
	return 1
}

// Sibling returns the other half of a double-height rendition. Other
// renditions are returned unchanged.
func (r LineRendition) Sibling() LineRendition {
	switch r {
	case DoubleHeightTop:
		return DoubleHeightBottom
	case DoubleHeightBottom:
		return DoubleHeightTop
	default:
		return r
	}
}

// FontFace is an opaque font face handle supplied by the shaping layer.
//
// ID is the cache identity of the face. The glyph cache assumes that the
// shaping layer returns the same handle for equivalent faces and that two
// handles with the same ID rasterize identically. Faces must be comparable
// (pointer types); a handle that reuses another handle's ID is detected
// and degrades into cache misses.
type FontFace interface {
	ID() uint64
	// GlyphIndex maps a rune to the face's nominal glyph index.
	GlyphIndex(r rune) (uint16, bool)
}

// RetainedFace is implemented by faces whose lifetime is reference counted.
// The glyph cache calls Retain when it starts storing a face and Release
// when the record holding it is dropped.
type RetainedFace interface {
	FontFace
	Retain()
	Release()
}

// Antialiasing selects how glyph coverage is produced and blended.
type Antialiasing uint8

const (
	// AntialiasingGrayscale produces single-channel coverage.
	AntialiasingGrayscale Antialiasing = iota
	// AntialiasingClearType produces per-subpixel coverage.
	AntialiasingClearType
	// AntialiasingAliased produces hard 0/1 coverage.
	AntialiasingAliased
)

// String returns the antialiasing mode name.
func (a Antialiasing) String() string {
	switch a {
	case AntialiasingGrayscale:
		return "grayscale"
	case AntialiasingClearType:
		return "cleartype"
	case AntialiasingAliased:
		return "aliased"
	default:
		return fmt.Sprintf("Antialiasing(%d)", uint8(a))
	}
}
