// Package text loads font faces and shapes terminal lines into the rows
// the renderer consumes.
//
// A [Face] wraps one font file. It is parsed twice: by
// golang.org/x/image/font/sfnt for outlines and metrics, and by
// go-text/typesetting for HarfBuzz shaping. Every Face gets a process-wide
// unique ID, which is the identity the glyph cache keys on.
//
// [NewFontSettings] derives the cell grid (cell size, baseline, decoration
// positions) from a face and a pixel size. A [Shaper] turns a line of runes
// into a [termatlas.ShapedRow], snapping every cluster to its cell column and
// falling back to later faces for runes the primary face lacks.
package text
