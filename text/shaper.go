package text

import (
	"fmt"
	"unicode"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"

	"github.com/gogpu/termatlas"
)

// Shaper shapes terminal lines with HarfBuzz and snaps the result to the
// cell grid.
//
// Shaper is not safe for concurrent use.
type Shaper struct {
	faces    []*Face
	goFaces  []*gtfont.Face
	hb       shaping.HarfbuzzShaper
	size     fixed.Int26_6
	cellW    float32
	lang     language.Language
	fallback uint32

	cols []int
}

// NewShaper creates a shaper for the cell grid of font. Runes missing from
// faces[0] are looked up in the following faces in order.
func NewShaper(font *termatlas.FontSettings, faces ...*Face) (*Shaper, error) {
	if len(faces) == 0 {
		return nil, ErrNoFaces
	}
	if font == nil || font.FontSize <= 0 || font.CellSize.X <= 0 {
		return nil, ErrInvalidSize
	}
	s := &Shaper{
		faces:    faces,
		goFaces:  make([]*gtfont.Face, len(faces)),
		size:     fixed.Int26_6(font.FontSize * 64),
		cellW:    float32(font.CellSize.X),
		lang:     language.NewLanguage("en"),
		fallback: 0xffffffff,
	}
	for i, f := range faces {
		s.goFaces[i] = gtfont.NewFace(f.shaping)
	}
	return s, nil
}

// SetDefaultColor sets the color used when ShapeLine gets no colors.
func (s *Shaper) SetDefaultColor(c uint32) { s.fallback = c }

// CellWidth returns the number of cells r occupies.
func CellWidth(r rune) int {
	switch {
	case r == 0:
		return 0
	case unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf):
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// ShapeLine shapes a line. colors holds one packed foreground color per
// rune and may be nil. Glyph advances place every cluster exactly at the
// column of its first rune, so ligatures and fallback glyphs never drift
// off the grid.
func (s *Shaper) ShapeLine(line []rune, colors []uint32) (*termatlas.ShapedRow, error) {
	if colors != nil && len(colors) != len(line) {
		return nil, fmt.Errorf("text: %d colors for %d runes", len(colors), len(line))
	}
	row := &termatlas.ShapedRow{}
	if len(line) == 0 {
		return row, nil
	}

	s.cols = s.cols[:0]
	col := 0
	for _, r := range line {
		s.cols = append(s.cols, col)
		col += CellWidth(r)
	}
	s.cols = append(s.cols, col)

	for start := 0; start < len(line); {
		fi := s.faceFor(line[start])
		end := start + 1
		for end < len(line) {
			if CellWidth(line[end]) != 0 && s.faceFor(line[end]) != fi {
				break
			}
			end++
		}
		s.shapeRun(row, line, colors, start, end, fi)
		start = end
	}
	return row, nil
}

// faceFor returns the first face that has a glyph for r.
func (s *Shaper) faceFor(r rune) int {
	for i, f := range s.faces {
		if _, ok := f.GlyphIndex(r); ok {
			return i
		}
	}
	return 0
}

func (s *Shaper) shapeRun(row *termatlas.ShapedRow, line []rune, colors []uint32, start, end, fi int) {
	out := s.hb.Shape(shaping.Input{
		Text:      line,
		RunStart:  start,
		RunEnd:    end,
		Direction: di.DirectionLTR,
		Face:      s.goFaces[fi],
		Size:      s.size,
		Script:    runScript(line[start:end]),
		Language:  s.lang,
	})

	from := len(row.GlyphIndices)
	for i, g := range out.Glyphs {
		cluster := g.TextIndex()
		next := end
		if i+1 < len(out.Glyphs) {
			next = out.Glyphs[i+1].TextIndex()
		}
		adv := float32(0)
		if next > cluster {
			adv = float32(s.cols[next]-s.cols[cluster]) * s.cellW
		}
		c := s.fallback
		if colors != nil {
			c = colors[cluster]
		}
		row.GlyphIndices = append(row.GlyphIndices, uint16(g.GlyphID))
		row.GlyphAdvances = append(row.GlyphAdvances, adv)
		row.GlyphOffsets = append(row.GlyphOffsets, termatlas.GlyphOffset{
			AdvanceOffset:  float32(g.XOffset) / 64,
			AscenderOffset: float32(g.YOffset) / 64,
		})
		row.Colors = append(row.Colors, c)
	}
	if to := len(row.GlyphIndices); to > from {
		row.Mappings = append(row.Mappings, termatlas.FontMapping{Face: s.faces[fi], GlyphsFrom: from, GlyphsTo: to})
	}
}

// runScript returns the script of the first non-space rune.
func runScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
