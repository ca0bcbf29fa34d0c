package atlas

import (
	"fmt"
	"image"
)

// Rect is an allocated atlas rectangle in texels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Bounds converts the rectangle to an image.Rectangle.
func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// segment is one horizontal piece of the skyline: texels [x, x+width) are
// occupied from the top of the surface down to y.
type segment struct {
	x, y, width int
}

// Packer implements skyline bottom-left rectangle packing.
//
// The skyline is a list of segments covering the full width of the surface.
// A rectangle is placed at the lowest y where it fits over consecutive
// segments, preferring the leftmost position on ties.
//
// Packer is not safe for concurrent use.
type Packer struct {
	width   int
	height  int
	padding int
	skyline []segment

	allocated int
	usedArea  int
}

// NewPacker creates a packer for a width x height surface. Padding is added
// to the right and bottom of every rectangle so bitmaps never touch. The
// one exception is a rectangle flush against the right edge, whose padding
// column is reserved by Resize when the surface widens.
func NewPacker(width, height, padding int) *Packer {
	p := &Packer{padding: max(padding, 0)}
	p.Reset(width, height)
	return p
}

// Size returns the surface size.
func (p *Packer) Size() (width, height int) {
	return p.width, p.height
}

// Allocated returns the number of rectangles handed out since the last reset.
func (p *Packer) Allocated() int {
	return p.allocated
}

// Utilization returns the fraction of the surface covered by rectangles.
func (p *Packer) Utilization() float64 {
	total := p.width * p.height
	if total == 0 {
		return 0
	}
	return float64(p.usedArea) / float64(total)
}

// Allocate reserves a w x h rectangle. It returns ErrExhausted if no
// position on the skyline can hold it.
func (p *Packer) Allocate(w, h int) (Rect, error) {
	if w <= 0 || h <= 0 {
		return Rect{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	pw := w + p.padding
	ph := h + p.padding
	// A rectangle flush against the right edge needs no padding yet.
	if pw > p.width && w <= p.width {
		pw = p.width
	}

	best, bestX, bestY := -1, 0, 0
	for i := range p.skyline {
		x := p.skyline[i].x
		if x+pw > p.width {
			break
		}
		y, ok := p.fit(i, pw)
		if !ok || y+h > p.height {
			continue
		}
		if best < 0 || y < bestY {
			best, bestX, bestY = i, x, y
		}
	}
	if best < 0 {
		return Rect{}, ErrExhausted
	}

	p.place(best, bestX, pw, bestY+ph)
	p.allocated++
	p.usedArea += w * h
	return Rect{X: bestX, Y: bestY, Width: w, Height: h}, nil
}

// fit returns the y at which a rectangle of width w starting at segment i
// rests on the skyline.
func (p *Packer) fit(i, w int) (int, bool) {
	x := p.skyline[i].x
	y := 0
	for j := i; j < len(p.skyline) && p.skyline[j].x < x+w; j++ {
		y = max(y, p.skyline[j].y)
		if y >= p.height {
			return 0, false
		}
	}
	return y, true
}

// place raises the skyline over [x, x+w) to y and merges equal neighbours.
func (p *Packer) place(i, x, w, y int) {
	end := x + w
	out := make([]segment, 0, len(p.skyline)+2)
	out = append(out, p.skyline[:i]...)
	out = append(out, segment{x: x, y: y, width: w})
	for j := i; j < len(p.skyline); j++ {
		s := p.skyline[j]
		sEnd := s.x + s.width
		if sEnd <= end {
			continue
		}
		if s.x < end {
			s.width = sEnd - end
			s.x = end
		}
		out = append(out, s)
	}

	merged := out[:1]
	for _, s := range out[1:] {
		last := &merged[len(merged)-1]
		if last.y == s.y {
			last.width += s.width
			continue
		}
		merged = append(merged, s)
	}
	p.skyline = merged
}

// Reset discards every rectangle and sets the surface size. All
// rectangles returned before the reset are invalid afterwards.
func (p *Packer) Reset(width, height int) {
	p.width = max(width, 0)
	p.height = max(height, 0)
	p.skyline = append(p.skyline[:0], segment{x: 0, y: 0, width: p.width})
	p.allocated = 0
	p.usedArea = 0
}

// Resize grows the surface. Rectangles already handed out keep their
// position and keep their padding from rectangles allocated later.
// Shrinking is rejected with ErrInvalidSize.
func (p *Packer) Resize(width, height int) error {
	if width < p.width || height < p.height {
		return fmt.Errorf("%w: cannot shrink %dx%d to %dx%d", ErrInvalidSize, p.width, p.height, width, height)
	}
	if width > p.width {
		grow := width - p.width
		last := &p.skyline[len(p.skyline)-1]
		if last.y == 0 {
			last.width += grow
		} else {
			// The old right edge becomes the padding column of whatever
			// touches it.
			pad := min(p.padding, grow)
			last.width += pad
			if grow > pad {
				p.skyline = append(p.skyline, segment{x: p.width + pad, y: 0, width: grow - pad})
			}
		}
	}
	p.width = width
	p.height = height
	return nil
}
