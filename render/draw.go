// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"math"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/quad"
	"github.com/gogpu/termatlas/raster"
)

// dirtyRectColor is translucent red.
const dirtyRectColor = 0x400000ff

// draw appends the quads of the current frame in paint order.
func (e *Engine) draw() {
	p := e.frame.p
	e.batch.Reset()
	e.frame.submits = 0

	target := p.Settings.TargetSize
	e.appendRect(quad.ShadingBackground, 0, 0, target.X, target.Y, 0)

	for y, row := range p.Rows {
		if row != nil {
			e.drawText(y, row)
		}
		if e.frame.err != nil {
			return
		}
	}
	for y, row := range p.Rows {
		if row != nil {
			e.drawLines(y, row, true)
		}
	}
	for y, row := range p.Rows {
		if row != nil {
			e.drawLines(y, row, false)
		}
	}
	for _, r := range e.frame.cursor.rects {
		if !e.frame.cursor.block {
			e.appendRect(quad.ShadingCursor, r.Position.X, r.Position.Y, r.Size.X, r.Size.Y, r.Background)
		}
	}
	for y, row := range p.Rows {
		if row != nil && row.SelectionFrom < row.SelectionTo {
			e.drawSelection(y, row)
		}
	}
	if e.cfg.Debug.Has(termatlas.DebugDirtyRects) {
		d := p.DirtyRect.Intersect(image.Rectangle{Max: p.Settings.CellCount})
		cell := e.frame.font.CellSize
		if !d.Empty() {
			e.appendRect(quad.ShadingSelection, d.Min.X*cell.X, d.Min.Y*cell.Y, d.Dx()*cell.X, d.Dy()*cell.Y, dirtyRectColor)
		}
	}
}

// drawText appends the glyphs of row y. Glyph origins are the running sum
// of the advances; a glyph's cell is the one its origin falls into.
func (e *Engine) drawText(y int, row *termatlas.ShapedRow) {
	p := e.frame.p
	cell := e.frame.font.CellSize
	sx, sy := raster.RenditionScale(row.LineRendition)
	top := y * cell.Y

	n := len(row.GlyphIndices)
	xs := e.glyphX[:0]
	x := float32(0)
	for i := range n {
		xs = append(xs, x)
		x += row.GlyphAdvances[i]
	}
	e.glyphX = xs
	withOffsets := len(row.GlyphOffsets) == n

	cur := &e.frame.cursor
	for _, m := range row.Mappings {
		for i := m.GlyphsFrom; i < m.GlyphsTo; i++ {
			entry := e.lookup(m.Face, row.LineRendition, row.GlyphIndices[i])
			if e.frame.err != nil {
				return
			}
			if entry.Empty() {
				continue
			}
			gx, dy := xs[i], float32(0)
			if withOffsets {
				gx += row.GlyphOffsets[i].AdvanceOffset
				dy = row.GlyphOffsets[i].AscenderOffset
			}
			px := int(math.Round(float64(gx*float32(sx)))) + int(entry.Offset.X)
			py := top - int(math.Round(float64(dy*float32(sy)))) + int(entry.Offset.Y)

			color := row.Colors[i]
			if col := int(xs[i]) / cell.X; cur.covers(col, y) {
				color = cur.textColor(color, logicalBackground(p, col, y, cur.shift), col*(cell.X<<cur.shift))
			}
			q := e.batch.Append()
			*q = quad.Instance{
				Shading:  entry.Shading,
				Position: quad.I16x2{X: clampI16(px), Y: clampI16(py)},
				Size:     entry.Size,
				TexCoord: entry.TexCoord,
				Color:    color,
			}
		}
	}
}

// lineSpan places a horizontal decoration into a row. Double height rows
// scale it and show the part that falls into their half.
func lineSpan(r termatlas.LineRendition, d termatlas.DecorationPosition, cellHeight int) (y, h int, ok bool) {
	y, h = d.Position, d.Height
	if r.IsDoubleHeight() {
		y, h = y*2, h*2
		if r == termatlas.DoubleHeightBottom {
			y -= cellHeight
		}
		y0, y1 := max(y, 0), min(y+h, cellHeight)
		return y0, y1 - y0, y1 > y0
	}
	return y, h, h > 0
}

// drawLines appends the gridlines of row y. With dotted set only the
// hyperlink underlines are drawn, which belong to the text paint group.
func (e *Engine) drawLines(y int, row *termatlas.ShapedRow, dotted bool) {
	font := e.frame.font
	shift := row.LineRendition.WidthShift()
	cw := font.CellSize.X << shift
	ch := font.CellSize.Y
	top := y * ch

	horizontal := func(s quad.ShadingType, d termatlas.DecorationPosition, x0, x1 int, color uint32) {
		if ly, lh, ok := lineSpan(row.LineRendition, d, ch); ok {
			e.appendRect(s, x0, top+ly, x1-x0, lh, color)
		}
	}

	for _, gl := range row.GridLines {
		if gl.From >= gl.To {
			continue
		}
		x0, x1 := gl.From*cw, gl.To*cw
		if dotted {
			if gl.Lines&termatlas.GridHyperlinkUnderline != 0 {
				s := quad.ShadingDottedLine
				if shift > 0 {
					s = quad.ShadingDottedLineWide
				}
				horizontal(s, font.Underline, x0, x1, gl.Color)
			}
			continue
		}
		if gl.Lines&termatlas.GridLeft != 0 {
			for c := gl.From; c < gl.To; c++ {
				e.appendRect(quad.ShadingSolidLine, c*cw+font.GridLeft.Position, top, font.GridLeft.Height, ch, gl.Color)
			}
		}
		if gl.Lines&termatlas.GridRight != 0 {
			for c := gl.From; c < gl.To; c++ {
				e.appendRect(quad.ShadingSolidLine, c*cw+font.GridRight.Position, top, font.GridRight.Height, ch, gl.Color)
			}
		}
		if gl.Lines&termatlas.GridTop != 0 {
			horizontal(quad.ShadingSolidLine, font.GridTop, x0, x1, gl.Color)
		}
		if gl.Lines&termatlas.GridBottom != 0 {
			horizontal(quad.ShadingSolidLine, font.GridBottom, x0, x1, gl.Color)
		}
		if gl.Lines&termatlas.GridUnderline != 0 {
			horizontal(quad.ShadingSolidLine, font.Underline, x0, x1, gl.Color)
		}
		if gl.Lines&termatlas.GridDoubleUnderline != 0 {
			for _, d := range font.DoubleUnderline {
				horizontal(quad.ShadingSolidLine, d, x0, x1, gl.Color)
			}
		}
		if gl.Lines&termatlas.GridStrikethrough != 0 {
			horizontal(quad.ShadingSolidLine, font.Strikethrough, x0, x1, gl.Color)
		}
	}
}

func (e *Engine) drawSelection(y int, row *termatlas.ShapedRow) {
	font := e.frame.font
	cw := font.CellSize.X << row.LineRendition.WidthShift()
	from := max(row.SelectionFrom, 0)
	to := min(row.SelectionTo, e.frame.p.Settings.CellCount.X)
	e.appendRect(quad.ShadingSelection, from*cw, y*font.CellSize.Y, (to-from)*cw, font.CellSize.Y,
		e.frame.p.Settings.Misc.SelectionColor)
}

// appendRect appends a solid quad. A solid line that continues the previous
// one with the same color and height extends it instead.
func (e *Engine) appendRect(s quad.ShadingType, x, y, w, h int, color uint32) {
	if w <= 0 || h <= 0 {
		return
	}
	if s == quad.ShadingSolidLine {
		last := e.batch.Last()
		if last != nil && last.Shading == s && last.Color == color &&
			int(last.Position.Y) == y && int(last.Size.Y) == h &&
			int(last.Position.X)+int(last.Size.X) == x && int(last.Size.X)+w <= math.MaxUint16 {
			last.Size.X += uint16(w)
			return
		}
	}
	q := e.batch.Append()
	*q = quad.Instance{
		Shading:  s,
		Position: quad.I16x2{X: clampI16(x), Y: clampI16(y)},
		Size:     quad.U16x2{X: clampU16(w), Y: clampU16(h)},
		Color:    color,
	}
}

func clampI16(v int) int16 {
	return int16(min(max(v, math.MinInt16), math.MaxInt16))
}

func clampU16(v int) uint16 {
	return uint16(min(max(v, 0), math.MaxUint16))
}
