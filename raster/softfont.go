package raster

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/termatlas"
)

// SoftFontGlyph renders glyph index of a downloaded soft font, scaled to
// fill the cell. Aliased fonts are scaled with nearest-neighbor sampling,
// everything else bilinearly.
func SoftFontGlyph(sf *termatlas.SoftFont, index int, rendition termatlas.LineRendition, m Metrics) (*Bitmap, error) {
	if sf == nil || index < 0 || index >= sf.Glyphs() || sf.Width <= 0 || sf.Width > 16 {
		return nil, fmt.Errorf("%w: soft font glyph %d", ErrGlyphRange, index)
	}

	src := image.NewAlpha(image.Rect(0, 0, sf.Width, sf.Height))
	rows := sf.Pattern[index*sf.Height : (index+1)*sf.Height]
	empty := true
	for y, bits := range rows {
		for x := 0; x < sf.Width; x++ {
			if bits&(0x8000>>x) != 0 {
				src.Pix[y*src.Stride+x] = 0xff
				empty = false
			}
		}
	}
	if empty {
		return &Bitmap{}, nil
	}

	rx, ry := RenditionScale(rendition)
	dst := image.NewAlpha(image.Rect(0, 0, m.CellSize.X*rx, m.CellSize.Y*ry))
	var scaler draw.Scaler = draw.ApproxBiLinear
	if m.Antialiasing == termatlas.AntialiasingAliased {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return &Bitmap{Image: dst, Kind: KindGrayscale}, nil
}
