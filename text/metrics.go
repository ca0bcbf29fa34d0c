package text

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/termatlas"
)

// NewFontSettings derives the cell grid of face at size pixels per em.
//
// The cell width is the advance of '0' (or 'M' when the font has no
// digits). The cell height spans the font's ascent and descent, and the
// decoration lines are placed inside the cell.
func NewFontSettings(face *Face, size float32, aa termatlas.Antialiasing, gen termatlas.Generation) (*termatlas.FontSettings, error) {
	if size <= 0 || math.IsNaN(float64(size)) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	f := face.SFNT()
	buf := face.bufs.Get().(*sfnt.Buffer)
	defer face.bufs.Put(buf)

	ppem := fixed.Int26_6(math.Round(float64(size) * 64))
	m, err := f.Metrics(buf, ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("%w: metrics: %v", ErrInvalidFont, err)
	}

	var adv fixed.Int26_6
	for _, r := range []rune{'0', 'M'} {
		gi, err := f.GlyphIndex(buf, r)
		if err != nil || gi == 0 {
			continue
		}
		if adv, err = f.GlyphAdvance(buf, gi, ppem, font.HintingNone); err == nil && adv > 0 {
			break
		}
	}
	if adv <= 0 {
		adv = ppem / 2
	}

	baseline := m.Ascent.Ceil()
	descender := max(m.Descent.Ceil(), 1)
	cell := image.Pt(max(adv.Round(), 1), baseline+descender)
	thin := max(1, int(math.Round(float64(size)/14)))

	fs := &termatlas.FontSettings{
		Generation:    gen,
		CellSize:      cell,
		FontSize:      size,
		Baseline:      baseline,
		Descender:     descender,
		ThinLineWidth: thin,
		Antialiasing:  aa,
	}

	underline := min(baseline+descender/2, cell.Y-thin)
	fs.Underline = termatlas.DecorationPosition{Position: underline, Height: thin}

	second := underline + 2*thin
	if second+thin > cell.Y {
		underline -= second + thin - cell.Y
		second = cell.Y - thin
	}
	fs.DoubleUnderline = [2]termatlas.DecorationPosition{
		{Position: max(underline, 0), Height: thin},
		{Position: second, Height: thin},
	}

	xh := m.XHeight.Round()
	if xh <= 0 {
		xh = baseline / 2
	}
	fs.Strikethrough = termatlas.DecorationPosition{Position: max(baseline-xh/2-thin/2, 0), Height: thin}

	fs.GridLeft = termatlas.DecorationPosition{Position: 0, Height: thin}
	fs.GridTop = termatlas.DecorationPosition{Position: 0, Height: thin}
	fs.GridRight = termatlas.DecorationPosition{Position: cell.X - thin, Height: thin}
	fs.GridBottom = termatlas.DecorationPosition{Position: cell.Y - thin, Height: thin}
	return fs, nil
}
