package atlas

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// pastel1 is the ColorBrewer Pastel1 palette, used to tint glyph
// rectangles when colorizing is enabled.
var pastel1 = [...]color.RGBA{
	{0xfb, 0xb4, 0xae, 0xff},
	{0xb3, 0xcd, 0xe3, 0xff},
	{0xcc, 0xeb, 0xc5, 0xff},
	{0xde, 0xcb, 0xe4, 0xff},
	{0xfe, 0xd9, 0xa6, 0xff},
	{0xff, 0xff, 0xcc, 0xff},
	{0xe5, 0xd8, 0xbd, 0xff},
	{0xfd, 0xda, 0xec, 0xff},
	{0xf2, 0xf2, 0xf2, 0xff},
}

// Surface is the CPU copy of the atlas texture: premultiplied RGBA, one
// 32-bit texel per pixel. Rows written since the last upload are tracked as
// a single dirty band.
type Surface struct {
	img *image.RGBA

	dirty      bool
	dirtyStart int
	dirtyEnd   int

	colorize bool
	tint     int
}

// NewSurface allocates a cleared width x height surface. The whole surface
// starts dirty.
func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.Reset(width, height)
	return s
}

// Size returns the surface size.
func (s *Surface) Size() image.Point {
	return s.img.Rect.Size()
}

// Image returns the backing image.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// SetColorize enables tinting of every rectangle written by Blit.
func (s *Surface) SetColorize(enabled bool) {
	s.colorize = enabled
}

// Blit copies src (starting at sp) into r. Alpha-only sources become
// white premultiplied coverage.
func (s *Surface) Blit(r Rect, src image.Image, sp image.Point) {
	if r.Empty() {
		return
	}
	op := draw.Src
	if s.colorize {
		draw.Draw(s.img, r.Bounds(), image.NewUniform(pastel1[s.tint%len(pastel1)]), image.Point{}, draw.Src)
		s.tint++
		op = draw.Over
	}
	draw.Draw(s.img, r.Bounds(), src, sp, op)
	s.markDirty(r.Y, r.Y+r.Height)
}

// Reset replaces the surface with a cleared one of the given size.
func (s *Surface) Reset(width, height int) {
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.tint = 0
	s.markDirty(0, height)
}

// Grow enlarges the surface and keeps the existing texels at their
// position. Because the row pitch changes the whole surface becomes dirty.
func (s *Surface) Grow(width, height int) {
	old := s.img
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Copy(s.img, image.Point{}, old, old.Rect, draw.Src, nil)
	s.markDirty(0, height)
}

func (s *Surface) markDirty(y0, y1 int) {
	if !s.dirty {
		s.dirty = true
		s.dirtyStart, s.dirtyEnd = y0, y1
		return
	}
	s.dirtyStart = min(s.dirtyStart, y0)
	s.dirtyEnd = max(s.dirtyEnd, y1)
}

// dirtyRows returns the band of rows [start, end) written since the last
// ClearDirty.
func (s *Surface) dirtyRows() (start, end int, ok bool) {
	return s.dirtyStart, s.dirtyEnd, s.dirty
}

// DirtyBytes returns the byte offset and texel bytes of the dirty band.
func (s *Surface) DirtyBytes() (offset int, data []byte, ok bool) {
	start, end, ok := s.dirtyRows()
	if !ok {
		return 0, nil, false
	}
	stride := s.img.Stride
	return start * stride, s.img.Pix[start*stride : end*stride], true
}

// ClearDirty marks the surface as uploaded.
func (s *Surface) ClearDirty() {
	s.dirty = false
	s.dirtyStart, s.dirtyEnd = 0, 0
}
