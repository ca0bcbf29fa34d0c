package raster

import (
	"image"

	"github.com/gogpu/termatlas"
)

// Metrics are the font metrics a bitmap depends on.
type Metrics struct {
	CellSize     image.Point
	FontSize     float32
	Baseline     int
	Antialiasing termatlas.Antialiasing
}

// MetricsFromFont extracts the rasterization metrics of font settings.
func MetricsFromFont(f *termatlas.FontSettings) Metrics {
	return Metrics{
		CellSize:     f.CellSize,
		FontSize:     f.FontSize,
		Baseline:     f.Baseline,
		Antialiasing: f.Antialiasing,
	}
}

// Request asks for one glyph bitmap.
type Request struct {
	Face      termatlas.FontFace
	Glyph     uint16
	Rendition termatlas.LineRendition
	// Box marks box-drawing glyphs, which are stretched to fill the cell.
	Box     bool
	Metrics Metrics
}

// Kind describes the content of a bitmap.
type Kind uint8

const (
	// KindGrayscale is single-channel coverage in an *image.Alpha.
	KindGrayscale Kind = iota
	// KindClearType is per-subpixel coverage in the RGB channels of an
	// *image.RGBA.
	KindClearType
	// KindColor is premultiplied color in an *image.RGBA, drawn as is.
	KindColor
)

// Bitmap is a rasterized glyph.
type Bitmap struct {
	// Image has its origin at (0, 0). Nil for glyphs without ink.
	Image image.Image

	// Offset is the position of Image's top-left corner relative to the
	// top-left corner of the cell, in rendition-scaled pixels.
	Offset image.Point

	Kind Kind
}

// Empty reports whether the bitmap has no pixels.
func (b *Bitmap) Empty() bool {
	return b == nil || b.Image == nil || b.Image.Bounds().Empty()
}

// Size returns the bitmap size.
func (b *Bitmap) Size() image.Point {
	if b.Empty() {
		return image.Point{}
	}
	return b.Image.Bounds().Size()
}

// Bytes returns the memory held by the bitmap's pixels.
func (b *Bitmap) Bytes() int64 {
	switch img := b.Image.(type) {
	case *image.Alpha:
		return int64(len(img.Pix))
	case *image.RGBA:
		return int64(len(img.Pix))
	default:
		sz := b.Size()
		return int64(sz.X * sz.Y * 4)
	}
}

// Rasterizer produces glyph bitmaps. A glyph without ink yields an empty
// bitmap and no error; an error means the glyph could not be produced.
type Rasterizer interface {
	Rasterize(req *Request) (*Bitmap, error)
}

// RenditionScale returns the horizontal and vertical scale of a rendition.
func RenditionScale(r termatlas.LineRendition) (sx, sy int) {
	switch r {
	case termatlas.DoubleWidth:
		return 2, 1
	case termatlas.DoubleHeightTop, termatlas.DoubleHeightBottom:
		return 2, 2
	default:
		return 1, 1
	}
}
