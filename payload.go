package termatlas

import (
	"fmt"
	"image"

	"github.com/gogpu/termatlas/gpucore"
)

// Payload is everything a backend needs to draw one frame.
type Payload struct {
	// Device is the GPU device the frame is drawn with. A different device
	// than the one used for the previous frame requires ReleaseResources first.
	Device gpucore.Device

	// Target is the backend-specific render target (for the native backend a
	// hal.TextureView). Nil draws into a device-owned offscreen target.
	Target any

	// Surface is presented after the frame has been submitted. Optional.
	Surface Presenter

	Settings *Settings

	// Rows holds one shaped row per visible terminal line, top to bottom.
	Rows []*ShapedRow

	// Background holds one packed color per cell, row-major, sized
	// CellCount.X*CellCount.Y. BackgroundGeneration changes whenever its
	// content changes.
	Background           []uint32
	BackgroundGeneration Generation

	// CursorRect is the cursor position in cells. An empty rectangle hides
	// the cursor.
	CursorRect image.Rectangle

	// DirtyRect is the invalidated region in cells. It is only used by the
	// dirty-rect debug overlay.
	DirtyRect image.Rectangle
}

// Presenter hands a finished frame to the presentation surface.
type Presenter interface {
	Present() error
}

// Settings is the versioned configuration snapshot of a frame. Generation
// changes whenever any nested settings change.
type Settings struct {
	Generation Generation

	// TargetSize is the render target size in pixels.
	TargetSize image.Point

	// CellCount is the viewport size in cells.
	CellCount image.Point

	Font   *FontSettings
	Cursor *CursorSettings
	Misc   *MiscSettings
}

// DecorationPosition is a horizontal or vertical line inside a cell, in
// pixels relative to the cell's top (or left) edge.
type DecorationPosition struct {
	Position int
	Height   int
}

// FontSettings holds the metrics every rasterized glyph depends on.
type FontSettings struct {
	Generation Generation

	// CellSize is the size of one cell in pixels.
	CellSize image.Point

	// FontSize is the em size in pixels.
	FontSize float32

	// Baseline is the distance from the top of the cell to the baseline.
	Baseline  int
	Descender int

	ThinLineWidth int

	Underline       DecorationPosition
	DoubleUnderline [2]DecorationPosition
	Strikethrough   DecorationPosition
	GridLeft        DecorationPosition
	GridTop         DecorationPosition
	GridRight       DecorationPosition
	GridBottom      DecorationPosition

	Antialiasing Antialiasing

	// SoftFont holds a downloaded (DRCS) font. Glyphs mapped to a nil face
	// are drawn from it.
	SoftFont *SoftFont
}

// SoftFont is a bitmap font uploaded by the application. Each glyph is
// Height rows of a 16-bit pattern; the most significant bit is the
// leftmost pixel and only the top Width bits are used.
type SoftFont struct {
	Pattern []uint16
	Width   int
	Height  int
}

// Glyphs returns the number of glyphs in the pattern.
func (f *SoftFont) Glyphs() int {
	if f == nil || f.Height <= 0 {
		return 0
	}
	return len(f.Pattern) / f.Height
}

// CursorType selects the cursor shape.
type CursorType uint8

const (
	CursorLegacy CursorType = iota
	CursorVerticalBar
	CursorUnderscore
	CursorEmptyBox
	CursorFullBox
	CursorDoubleUnderscore
)

// CursorInvert is the cursor color that inverts the cell colors under the
// cursor instead of painting a fixed color.
const CursorInvert uint32 = 0xFFFFFFFF

// CursorSettings describes how the cursor is drawn.
type CursorSettings struct {
	Type CursorType
	// Color is the packed cursor color, or CursorInvert.
	Color uint32
	// HeightPercentage is the filled height of the legacy cursor.
	HeightPercentage int
}

// MiscSettings holds viewport-wide colors and tuning values.
type MiscSettings struct {
	Generation Generation

	BackgroundColor uint32
	SelectionColor  uint32

	// GammaRatios and EnhancedContrast are passed through to the pixel
	// stage unchanged.
	GammaRatios      [4]float32
	EnhancedContrast float32
}

// FontMapping assigns glyphs [GlyphsFrom, GlyphsTo) of a row to a face.
// A nil Face selects the soft font; the glyph indices are then indices
// into the soft font pattern.
type FontMapping struct {
	Face       FontFace
	GlyphsFrom int
	GlyphsTo   int
}

// GlyphOffset is the shaper's fine positioning of a glyph in pixels.
type GlyphOffset struct {
	AdvanceOffset  float32
	AscenderOffset float32
}

// GridLines is a set of cell decorations.
type GridLines uint16

const (
	GridLeft GridLines = 1 << iota
	GridTop
	GridRight
	GridBottom
	GridUnderline
	GridHyperlinkUnderline
	GridDoubleUnderline
	GridStrikethrough
)

// GridLineRange decorates cells [From, To) of a row.
type GridLineRange struct {
	Lines GridLines
	Color uint32
	From  int
	To    int
}

// ShapedRow is one shaped terminal line.
type ShapedRow struct {
	Mappings      []FontMapping
	GlyphIndices  []uint16
	GlyphAdvances []float32
	GlyphOffsets  []GlyphOffset
	Colors        []uint32
	GridLines     []GridLineRange
	LineRendition LineRendition

	// SelectionFrom and SelectionTo are cell columns; an empty range means
	// nothing on the row is selected.
	SelectionFrom int
	SelectionTo   int
}

// Validate checks the internal consistency of the row.
func (r *ShapedRow) Validate() error {
	n := len(r.GlyphIndices)
	if len(r.GlyphAdvances) != n || len(r.Colors) != n {
		return fmt.Errorf("%w: row has %d glyphs, %d advances, %d colors",
			ErrInvalidPayload, n, len(r.GlyphAdvances), len(r.Colors))
	}
	if len(r.GlyphOffsets) != 0 && len(r.GlyphOffsets) != n {
		return fmt.Errorf("%w: row has %d glyphs but %d offsets", ErrInvalidPayload, n, len(r.GlyphOffsets))
	}
	for _, m := range r.Mappings {
		if m.GlyphsFrom < 0 || m.GlyphsTo > n || m.GlyphsFrom > m.GlyphsTo {
			return fmt.Errorf("%w: mapping [%d,%d) outside %d glyphs", ErrInvalidPayload, m.GlyphsFrom, m.GlyphsTo, n)
		}
	}
	return nil
}

// Validate checks that the payload can be rendered.
func (p *Payload) Validate() error {
	if p.Device == nil {
		return ErrNoDevice
	}
	s := p.Settings
	if s == nil || s.Font == nil || s.Misc == nil {
		return fmt.Errorf("%w: missing settings", ErrInvalidPayload)
	}
	if s.Font.CellSize.X <= 0 || s.Font.CellSize.Y <= 0 {
		return fmt.Errorf("%w: cell size %v", ErrInvalidPayload, s.Font.CellSize)
	}
	if s.CellCount.X <= 0 || s.CellCount.Y <= 0 || s.TargetSize.X <= 0 || s.TargetSize.Y <= 0 {
		return fmt.Errorf("%w: viewport %v cells, %v pixels", ErrInvalidPayload, s.CellCount, s.TargetSize)
	}
	if len(p.Rows) > s.CellCount.Y {
		return fmt.Errorf("%w: %d rows for %d visible lines", ErrInvalidPayload, len(p.Rows), s.CellCount.Y)
	}
	if p.Background != nil && len(p.Background) != s.CellCount.X*s.CellCount.Y {
		return fmt.Errorf("%w: background has %d cells, want %d",
			ErrInvalidPayload, len(p.Background), s.CellCount.X*s.CellCount.Y)
	}
	for i, row := range p.Rows {
		if row == nil {
			continue
		}
		if err := row.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// CursorRect is one of the rectangles the cursor is drawn from, in pixels.
// An empty-box cursor over a wide glyph whose halves have different
// backgrounds needs up to MaxCursorRects of them.
type CursorRect struct {
	Position   image.Point
	Size       image.Point
	Background uint32
	// Foreground is the color of text under a block cursor rectangle, or
	// CursorInvert to invert it. Thinner shapes are drawn over the text and
	// leave it at 0.
	Foreground uint32
}

// MaxCursorRects is the largest number of rectangles a cursor is split into.
const MaxCursorRects = 6
