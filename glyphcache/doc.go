// Package glyphcache maps (face, rendition, glyph) to rectangles of the
// glyph atlas.
//
// The cache keeps one [FaceRecord] per face and line rendition. A record
// owns the face's glyph entries and the set of its box-drawing glyphs,
// which are stretched to the cell instead of drawn at their natural size.
// Records are heap allocated so that pointers to them survive growth of
// the record table.
//
// Double-height glyphs are rasterized once at full size and split into a
// top and a bottom half at the cell boundary. The half for the other
// rendition is stored in that rendition's record right away, so drawing
// the second row of a double-height line never rasterizes again.
//
// When the atlas is full Lookup returns an error wrapping
// [atlas.ErrExhausted] and leaves the cache unchanged; the caller grows or
// resets the atlas, calls [Cache.ClearGlyphs] after a reset, and retries.
package glyphcache
