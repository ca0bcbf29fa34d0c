package atlas

import (
	"image"
	"math/bits"
)

// MinSize is the edge length of the smallest atlas.
const MinSize = 128

// NextSize returns the atlas size to use when an atlas of size cur is full
// (cur is the zero point for a fresh atlas).
//
// The area is at least enough for about 95 cells, at least twice the
// current area, but no more than 1.25 times the render target, since a
// screen full of unique glyphs cannot need more. The result is clamped to
// [MinSize², maxDim²] and rounded up to powers of two with the width never
// smaller than the height.
func NextSize(cur, cellSize, targetSize image.Point, maxDim int) image.Point {
	maxDim = max(maxDim, MinSize)

	minArea := MinSize * MinSize
	minAreaByFont := cellSize.X * cellSize.Y * 95
	minAreaByGrowth := cur.X * cur.Y * 2
	targetArea := targetSize.X * targetSize.Y
	maxAreaByFont := targetArea + targetArea/4

	area := min(maxAreaByFont, max(minAreaByFont, minAreaByGrowth))
	area = min(max(area, minArea), maxDim*maxDim)

	index := bits.Len(uint(area-1)) - 1
	u := min(1<<((index+2)/2), maxDim)
	v := min(1<<((index+1)/2), maxDim)
	return image.Pt(u, v)
}
