// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/termatlas"
)

// cursorState is the cursor of the frame being drawn.
type cursorState struct {
	// cells is the cursor in cells, clipped to the viewport.
	cells image.Rectangle
	// shift is the width shift of the cursor row's rendition. Cursor
	// columns are logical; background cells are 1<<shift times narrower.
	shift uint

	// block cursors cover whole cells. They are painted into the uploaded
	// background and recolor the text above them instead of being drawn
	// as quads.
	block  bool
	invert bool
	color  uint32

	rects []termatlas.CursorRect
}

// bgKey identifies the background patch of the cursor. Two frames with an
// equal key upload the same background.
type bgKey struct {
	cells image.Rectangle
	shift uint
	color uint32
}

func (c *cursorState) bgKey() bgKey {
	if !c.block {
		return bgKey{}
	}
	return bgKey{cells: c.cells, shift: c.shift, color: c.color}
}

// covers reports whether cell (x, y) lies under a block cursor.
func (c *cursorState) covers(x, y int) bool {
	return c.block && image.Pt(x, y).In(c.cells)
}

// bgCells returns the background cells [x0, x1) under logical column x.
func (c *cursorState) bgCells(x, cols int) (x0, x1 int) {
	return min(x<<c.shift, cols), min((x+1)<<c.shift, cols)
}

// textColor returns the color of a glyph of color fg whose cell starts at
// pixel x under a block cursor. The rectangle containing x decides; cellBg
// is only used when the cursor ran out of rectangles.
func (c *cursorState) textColor(fg, cellBg uint32, x int) uint32 {
	fgc := c.rectForeground(cellBg)
	for _, r := range c.rects {
		if x >= r.Position.X && x < r.Position.X+r.Size.X {
			fgc = r.Foreground
			break
		}
	}
	if fgc == termatlas.CursorInvert {
		return termatlas.InvertRGB(fg)
	}
	return fgc
}

// rectForeground is the text color a cursor rectangle over a cell of color
// cellBg carries. Only block cursors recolor text; other shapes carry 0.
func (c *cursorState) rectForeground(cellBg uint32) uint32 {
	switch {
	case !c.block:
		return 0
	case c.invert:
		return termatlas.CursorInvert
	}
	return cellBg | 0xff000000
}

// background returns the cursor color over a cell of color cellBg.
func (c *cursorState) background(cellBg uint32) uint32 {
	if c.invert {
		return termatlas.InvertRGB(cellBg) | 0xff000000
	}
	return c.color
}

// cellBackground returns the background color of cell (x, y).
func cellBackground(p *termatlas.Payload, x, y int) uint32 {
	cols := p.Settings.CellCount.X
	if p.Background == nil {
		return p.Settings.Misc.BackgroundColor
	}
	return p.Background[y*cols+x]
}

// logicalBackground returns the background color under logical column x
// of a row whose cells are 1<<shift background cells wide.
func logicalBackground(p *termatlas.Payload, x, y int, shift uint) uint32 {
	return cellBackground(p, min(x<<shift, p.Settings.CellCount.X-1), y)
}

// newCursorState lays out the cursor of p. Shapes are split at cell
// boundaries where their color changes, which an empty box over a wide
// glyph can do on every edge.
func newCursorState(p *termatlas.Payload) cursorState {
	s := p.Settings
	cs := s.Cursor
	viewport := image.Rectangle{Max: s.CellCount}
	cells := p.CursorRect.Intersect(viewport)
	if cs == nil || cells.Empty() {
		return cursorState{}
	}
	st := cursorState{
		cells:  cells,
		invert: cs.Color == termatlas.CursorInvert,
		color:  cs.Color,
		block:  cs.Type == termatlas.CursorFullBox || (cs.Type == termatlas.CursorLegacy && cs.HeightPercentage >= 100),
	}

	font := s.Font
	if y := cells.Min.Y; y < len(p.Rows) && p.Rows[y] != nil {
		st.shift = p.Rows[y].LineRendition.WidthShift()
	}
	cw := font.CellSize.X << st.shift
	ch := font.CellSize.Y
	left := cells.Min.X * cw
	top := cells.Min.Y * ch
	w := cells.Dx() * cw
	h := cells.Dy() * ch
	thin := max(font.ThinLineWidth, 1)

	var shapes []image.Rectangle
	switch cs.Type {
	case termatlas.CursorLegacy:
		pct := min(max(cs.HeightPercentage, 1), 100)
		lh := max(h*pct/100, 1)
		shapes = append(shapes, image.Rect(left, top+h-lh, left+w, top+h))
	case termatlas.CursorVerticalBar:
		shapes = append(shapes, image.Rect(left, top, left+thin, top+h))
	case termatlas.CursorUnderscore:
		u := font.Underline
		shapes = append(shapes, image.Rect(left, top+u.Position, left+w, top+u.Position+max(u.Height, 1)))
	case termatlas.CursorEmptyBox:
		shapes = append(shapes,
			image.Rect(left, top, left+w, top+thin),
			image.Rect(left, top+h-thin, left+w, top+h),
			image.Rect(left, top+thin, left+thin, top+h-thin),
			image.Rect(left+w-thin, top+thin, left+w, top+h-thin),
		)
	case termatlas.CursorFullBox:
		shapes = append(shapes, image.Rect(left, top, left+w, top+h))
	case termatlas.CursorDoubleUnderscore:
		for _, u := range font.DoubleUnderline {
			shapes = append(shapes, image.Rect(left, top+u.Position, left+w, top+u.Position+max(u.Height, 1)))
		}
	}

	y := cells.Min.Y
	for _, r := range shapes {
		if r.Empty() {
			continue
		}
		// Walk the cells under r and start a new rectangle whenever the
		// cursor or text color changes.
		c0 := max(r.Min.X/cw, cells.Min.X)
		c1 := min((r.Max.X+cw-1)/cw, cells.Max.X)
		start := r.Min.X
		cellBg := logicalBackground(p, c0, y, st.shift)
		bg := st.background(cellBg)
		for c := c0 + 1; c <= c1; c++ {
			var next, nextCell uint32
			if c < c1 {
				nextCell = logicalBackground(p, c, y, st.shift)
				next = st.background(nextCell)
				if next == bg && st.rectForeground(nextCell) == st.rectForeground(cellBg) {
					continue
				}
			}
			end := min(c*cw, r.Max.X)
			if c == c1 {
				end = r.Max.X
			}
			if end > start && len(st.rects) < termatlas.MaxCursorRects {
				st.rects = append(st.rects, termatlas.CursorRect{
					Position:   image.Pt(start, r.Min.Y),
					Size:       image.Pt(end-start, r.Dy()),
					Background: bg,
					Foreground: st.rectForeground(cellBg),
				})
			}
			start, bg, cellBg = end, next, nextCell
		}
	}
	return st
}
