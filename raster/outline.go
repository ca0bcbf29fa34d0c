package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/termatlas"
)

// OutlineFace is a font face backed by an sfnt font.
type OutlineFace interface {
	termatlas.FontFace
	SFNT() *sfnt.Font
}

// Outline rasterizes sfnt glyph outlines.
//
// Outline is not safe for concurrent use; it reuses its scratch buffers.
type Outline struct {
	buf sfnt.Buffer
	vr  vector.Rasterizer
}

// NewOutline creates an outline rasterizer.
func NewOutline() *Outline {
	return &Outline{}
}

// transform maps outline points (26.6 pixels, baseline origin, y down) to
// pixels relative to the cell's top-left corner.
type transform struct {
	sx, sy float32
	dx, dy float32
}

func (t transform) apply(p fixed.Point26_6) (float32, float32) {
	return float32(p.X)/64*t.sx + t.dx, float32(p.Y)/64*t.sy + t.dy
}

// Rasterize implements Rasterizer.
func (o *Outline) Rasterize(req *Request) (*Bitmap, error) {
	face, ok := req.Face.(OutlineFace)
	if !ok || face.SFNT() == nil {
		return nil, ErrUnsupportedFace
	}
	f := face.SFNT()
	m := req.Metrics
	ppem := fixed.Int26_6(math.Round(float64(m.FontSize) * 64))
	gi := sfnt.GlyphIndex(req.Glyph)

	segs, err := f.LoadGlyph(&o.buf, gi, ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: glyph %d: %v", ErrNoOutline, req.Glyph, err)
	}
	if len(segs) == 0 {
		return &Bitmap{}, nil
	}

	rx, ry := RenditionScale(req.Rendition)
	tr := transform{sx: float32(rx), sy: float32(ry), dy: float32(m.Baseline * ry)}
	if req.Box {
		if err := o.boxTransform(f, gi, ppem, m, &tr); err != nil {
			return nil, err
		}
	}

	// Conservative bounds over all points, control points included.
	x0, y0 := float32(math.MaxFloat32), float32(math.MaxFloat32)
	x1, y1 := -x0, -y0
	for _, s := range segs {
		for _, p := range s.Args[:argCount(s.Op)] {
			x, y := tr.apply(p)
			x0, y0 = min(x0, x), min(y0, y)
			x1, y1 = max(x1, x), max(y1, y)
		}
	}
	bounds := image.Rect(
		int(math.Floor(float64(x0))), int(math.Floor(float64(y0))),
		int(math.Ceil(float64(x1))), int(math.Ceil(float64(y1))),
	)
	if req.Box {
		// Box glyphs must not bleed into neighbouring cells.
		cell := image.Rect(0, 0, m.CellSize.X*rx, m.CellSize.Y*ry)
		bounds = bounds.Intersect(cell)
	}
	if bounds.Empty() {
		return &Bitmap{}, nil
	}

	if m.Antialiasing == termatlas.AntialiasingClearType {
		return o.drawClearType(segs, tr, bounds), nil
	}
	mask := o.draw(segs, tr, bounds, 1)
	if m.Antialiasing == termatlas.AntialiasingAliased {
		for i, a := range mask.Pix {
			if a >= 0x80 {
				mask.Pix[i] = 0xff
			} else {
				mask.Pix[i] = 0
			}
		}
	}
	return &Bitmap{Image: mask, Offset: bounds.Min, Kind: KindGrayscale}, nil
}

// boxTransform stretches the glyph so that its advance spans the cell
// width and the font's ascent to descent spans the cell height.
func (o *Outline) boxTransform(f *sfnt.Font, gi sfnt.GlyphIndex, ppem fixed.Int26_6, m Metrics, tr *transform) error {
	fm, err := f.Metrics(&o.buf, ppem, font.HintingNone)
	if err != nil {
		return fmt.Errorf("%w: metrics: %v", ErrNoOutline, err)
	}
	adv, err := f.GlyphAdvance(&o.buf, gi, ppem, font.HintingNone)
	if err != nil {
		return fmt.Errorf("%w: advance of glyph %d: %v", ErrNoOutline, gi, err)
	}
	lineHeight := float32(fm.Ascent+fm.Descent) / 64
	if adv <= 0 || lineHeight <= 0 {
		return nil
	}
	kx := float32(m.CellSize.X) / (float32(adv) / 64)
	ky := float32(m.CellSize.Y) / lineHeight
	tr.sx *= kx
	tr.dy = float32(fm.Ascent) / 64 * ky * tr.sy
	tr.sy *= ky
	return nil
}

// draw fills the outline into a coverage mask. xscale supersamples
// horizontally.
func (o *Outline) draw(segs sfnt.Segments, tr transform, bounds image.Rectangle, xscale float32) *image.Alpha {
	w := int(float32(bounds.Dx()) * xscale)
	h := bounds.Dy()
	o.vr.Reset(w, h)
	o.vr.DrawOp = draw.Src

	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	pt := func(p fixed.Point26_6) (float32, float32) {
		x, y := tr.apply(p)
		return (x - ox) * xscale, y - oy
	}
	started := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				o.vr.ClosePath()
			}
			started = true
			x, y := pt(s.Args[0])
			o.vr.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := pt(s.Args[0])
			o.vr.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(s.Args[0])
			x, y := pt(s.Args[1])
			o.vr.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			ax, ay := pt(s.Args[0])
			bx, by := pt(s.Args[1])
			x, y := pt(s.Args[2])
			o.vr.CubeTo(ax, ay, bx, by, x, y)
		}
	}
	if started {
		o.vr.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	o.vr.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// drawClearType rasterizes at three times the horizontal resolution and
// folds each triple of samples into the R, G and B coverage of one pixel.
func (o *Outline) drawClearType(segs sfnt.Segments, tr transform, bounds image.Rectangle) *Bitmap {
	wide := o.draw(segs, tr, bounds, 3)
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		row := wide.Pix[y*wide.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b := row[3*x], row[3*x+1], row[3*x+2]
			img.SetRGBA(x, y, color.RGBA{r, g, b, max(r, g, b)})
		}
	}
	return &Bitmap{Image: img, Offset: bounds.Min, Kind: KindClearType}
}

func argCount(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}
