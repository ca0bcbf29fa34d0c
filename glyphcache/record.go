package glyphcache

import (
	"image"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/internal/flatset"
	"github.com/gogpu/termatlas/quad"
)

// FaceKey identifies a face record. ID 0 is the soft font.
type FaceKey struct {
	ID        uint64
	Rendition termatlas.LineRendition
}

// GlyphEntry is a glyph's place in the atlas.
type GlyphEntry struct {
	// Shading is ShadingDefault for glyphs without ink.
	Shading quad.ShadingType

	// OverlapSplit marks halves of a split double-height glyph.
	OverlapSplit bool

	// Offset is the position of the bitmap relative to the top-left corner
	// of the cell (the double cell for double-width renditions).
	Offset   quad.I16x2
	Size     quad.U16x2
	TexCoord quad.U16x2
}

// Empty reports whether the entry draws nothing.
func (e GlyphEntry) Empty() bool {
	return e.Shading == quad.ShadingDefault || e.Size.X == 0 || e.Size.Y == 0
}

// Box-drawing ranges: U+2500..U+259F (box drawing, block elements) and
// U+E0B0..U+E0BF (powerline separators).
var boxRanges = [...][2]rune{
	{0x2500, 0x259F},
	{0xE0B0, 0xE0BF},
}

// FaceRecord holds the glyphs of one face in one rendition.
type FaceRecord struct {
	face      termatlas.FontFace
	rendition termatlas.LineRendition
	glyphs    *flatset.Set[uint16, GlyphEntry]
	boxGlyphs *flatset.Set[uint16, struct{}]
}

func newFaceRecord(face termatlas.FontFace, r termatlas.LineRendition) *FaceRecord {
	rec := &FaceRecord{
		face:      face,
		rendition: r,
		glyphs:    flatset.New[uint16, GlyphEntry](flatset.HashUint16, 64, 1),
	}
	retain(face)
	return rec
}

// Face returns the face the record was created for.
func (r *FaceRecord) Face() termatlas.FontFace { return r.face }

// Len returns the number of cached glyphs.
func (r *FaceRecord) Len() int { return r.glyphs.Len() }

// isBox reports whether glyph is one of the face's box-drawing glyphs.
// The set is built on first use.
func (r *FaceRecord) isBox(glyph uint16) bool {
	if r.face == nil {
		return false
	}
	if r.boxGlyphs == nil {
		r.boxGlyphs = flatset.New[uint16, struct{}](flatset.HashUint16, 16, 2)
		for _, br := range boxRanges {
			for c := br[0]; c <= br[1]; c++ {
				if gi, ok := r.face.GlyphIndex(c); ok {
					r.boxGlyphs.Insert(gi, struct{}{})
				}
			}
		}
	}
	_, ok := r.boxGlyphs.Lookup(glyph)
	return ok
}

// rebind replaces the record's face, dropping everything derived from the
// old one.
func (r *FaceRecord) rebind(face termatlas.FontFace) {
	release(r.face)
	retain(face)
	r.face = face
	r.glyphs.Clear()
	r.boxGlyphs = nil
}

func (r *FaceRecord) drop() {
	release(r.face)
	r.face = nil
}

func retain(f termatlas.FontFace) {
	if rf, ok := f.(termatlas.RetainedFace); ok {
		rf.Retain()
	}
}

func release(f termatlas.FontFace) {
	if rf, ok := f.(termatlas.RetainedFace); ok {
		rf.Release()
	}
}

// atlasRect returns the atlas rectangle an entry occupies.
func (e GlyphEntry) atlasRect() image.Rectangle {
	return image.Rect(int(e.TexCoord.X), int(e.TexCoord.Y),
		int(e.TexCoord.X)+int(e.Size.X), int(e.TexCoord.Y)+int(e.Size.Y))
}
