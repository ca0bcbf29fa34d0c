// Package raster produces the glyph bitmaps stored in the atlas.
//
// A [Rasterizer] turns a glyph of a font face into a coverage bitmap
// positioned relative to the top-left corner of its cell. [Outline] is the
// default implementation: it draws the glyph's sfnt outline with
// golang.org/x/image/vector, scales it for double-width and double-height
// renditions and stretches box-drawing glyphs so that they tile seamlessly
// across cells. [SoftFontGlyph] scales downloaded (DRCS) bitmap glyphs to
// the cell. [Cached] memoizes another rasterizer so that atlas resets do
// not repeat the outline work.
package raster
