package glyphcache

import (
	"fmt"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/atlas"
	"github.com/gogpu/termatlas/quad"
	"github.com/gogpu/termatlas/raster"
)

// Stats counts cache activity since the cache was created.
type Stats struct {
	Faces          int
	Glyphs         int
	Hits           uint64
	Misses         uint64
	Placeholders   uint64
	SplitInserts   uint64
	IdentityResets uint64
}

// Cache is the glyph cache. It is not safe for concurrent use.
type Cache struct {
	packer     *atlas.Packer
	surface    *atlas.Surface
	rasterizer raster.Rasterizer

	font    *termatlas.FontSettings
	metrics raster.Metrics

	faces map[FaceKey]*FaceRecord
	stats Stats
}

// New creates a cache that allocates from packer, writes pixels into
// surface and produces bitmaps with r.
func New(packer *atlas.Packer, surface *atlas.Surface, r raster.Rasterizer) *Cache {
	return &Cache{
		packer:     packer,
		surface:    surface,
		rasterizer: r,
		faces:      make(map[FaceKey]*FaceRecord),
	}
}

// SetFont sets the font settings glyphs are rasterized with. Glyphs
// already cached are kept; callers reset the atlas when the metrics change.
func (c *Cache) SetFont(f *termatlas.FontSettings) {
	c.font = f
	c.metrics = raster.MetricsFromFont(f)
}

// lookupRecord returns the record for key, if any.
func (c *Cache) lookupRecord(key FaceKey) (*FaceRecord, bool) {
	rec, ok := c.faces[key]
	return rec, ok
}

func faceID(face termatlas.FontFace) uint64 {
	if face == nil {
		return 0
	}
	return face.ID()
}

// record returns the record for face in rendition r, creating it on first
// use. A record whose face differs from face despite an equal ID is
// rebound to face.
func (c *Cache) record(face termatlas.FontFace, r termatlas.LineRendition) *FaceRecord {
	key := FaceKey{ID: faceID(face), Rendition: r}
	rec, ok := c.faces[key]
	if !ok {
		rec = newFaceRecord(face, r)
		c.faces[key] = rec
		return rec
	}
	if rec.face != face {
		termatlas.Logger().Warn("glyphcache: face identity changed",
			"id", key.ID, "rendition", r, "glyphs", rec.glyphs.Len())
		c.stats.IdentityResets++
		rec.rebind(face)
	}
	return rec
}

// Lookup returns the atlas entry of glyph, rasterizing and packing it on a
// miss. A nil face selects the soft font.
//
// Glyphs that cannot be rasterized are cached as empty placeholders and a
// warning is logged. If the atlas has no room Lookup returns an error
// wrapping atlas.ErrExhausted and caches nothing.
func (c *Cache) Lookup(face termatlas.FontFace, r termatlas.LineRendition, glyph uint16) (GlyphEntry, error) {
	if c.font == nil {
		return GlyphEntry{}, ErrNoFont
	}
	rec := c.record(face, r)
	if e, ok := rec.glyphs.Get(glyph); ok {
		c.stats.Hits++
		return e, nil
	}
	c.stats.Misses++

	bm, err := c.rasterize(rec, glyph)
	if err != nil {
		termatlas.Logger().Warn("glyphcache: rasterization failed, using placeholder",
			"face", faceID(face), "glyph", glyph, "rendition", r, "err", err)
		c.stats.Placeholders++
		e := GlyphEntry{}
		rec.glyphs.Insert(glyph, e)
		return e, nil
	}

	e, err := c.pack(bm)
	if err != nil {
		return GlyphEntry{}, fmt.Errorf("glyphcache: glyph %d of face %d: %w", glyph, faceID(face), err)
	}

	if r.IsDoubleHeight() {
		top, bottom := splitDoubleHeight(e, c.font.CellSize.Y)
		mine, sibling := top, bottom
		if r == termatlas.DoubleHeightBottom {
			mine, sibling = bottom, top
		}
		sib := c.record(face, r.Sibling())
		if _, inserted := sib.glyphs.Insert(glyph, sibling); inserted {
			c.stats.SplitInserts++
		}
		e = mine
	}
	rec.glyphs.Insert(glyph, e)
	return e, nil
}

func (c *Cache) rasterize(rec *FaceRecord, glyph uint16) (*raster.Bitmap, error) {
	if rec.face == nil {
		return raster.SoftFontGlyph(c.font.SoftFont, int(glyph), rec.rendition, c.metrics)
	}
	return c.rasterizer.Rasterize(&raster.Request{
		Face:      rec.face,
		Glyph:     glyph,
		Rendition: rec.rendition,
		Box:       rec.isBox(glyph),
		Metrics:   c.metrics,
	})
}

// pack allocates room for bm and copies it into the atlas surface.
func (c *Cache) pack(bm *raster.Bitmap) (GlyphEntry, error) {
	if bm.Empty() {
		return GlyphEntry{}, nil
	}
	sz := bm.Size()
	if sz.X > 0xffff || sz.Y > 0xffff {
		return GlyphEntry{}, fmt.Errorf("%w: bitmap %v", atlas.ErrExhausted, sz)
	}
	rect, err := c.packer.Allocate(sz.X, sz.Y)
	if err != nil {
		return GlyphEntry{}, err
	}
	c.surface.Blit(rect, bm.Image, bm.Image.Bounds().Min)

	return GlyphEntry{
		Shading:  shadingFor(bm.Kind),
		Offset:   quad.I16x2{X: clampI16(bm.Offset.X), Y: clampI16(bm.Offset.Y)},
		Size:     quad.U16x2{X: uint16(sz.X), Y: uint16(sz.Y)},
		TexCoord: quad.U16x2{X: uint16(rect.X), Y: uint16(rect.Y)},
	}, nil
}

func shadingFor(k raster.Kind) quad.ShadingType {
	switch k {
	case raster.KindClearType:
		return quad.ShadingTextClearType
	case raster.KindColor:
		return quad.ShadingTextPassthrough
	default:
		return quad.ShadingTextGrayscale
	}
}

func clampI16(v int) int16 {
	return int16(min(max(v, -0x8000), 0x7fff))
}

// splitDoubleHeight cuts a glyph rasterized at double height into the
// parts that fall into the top and the bottom row. Offsets of both halves
// are relative to their own row.
func splitDoubleHeight(e GlyphEntry, cellHeight int) (top, bottom GlyphEntry) {
	if e.Empty() {
		return e, e
	}
	e.OverlapSplit = true
	topSize := min(max(cellHeight-int(e.Offset.Y), 0), int(e.Size.Y))

	top = e
	top.Size.Y = uint16(topSize)

	bottom = e
	bottom.TexCoord.Y += uint16(topSize)
	bottom.Offset.Y += int16(topSize - cellHeight)
	bottom.Size.Y -= uint16(topSize)

	for _, h := range []*GlyphEntry{&top, &bottom} {
		if h.Size.Y == 0 {
			h.Shading = quad.ShadingDefault
		}
	}
	return top, bottom
}

// Placeholder caches an empty entry for glyph so that later lookups stop
// trying to pack it. The engine uses it for glyphs that do not fit even
// into a freshly reset atlas. A glyph that is already cached keeps its
// entry, which is returned.
func (c *Cache) Placeholder(face termatlas.FontFace, r termatlas.LineRendition, glyph uint16) GlyphEntry {
	rec := c.record(face, r)
	h, inserted := rec.glyphs.Insert(glyph, GlyphEntry{})
	if !inserted {
		return *rec.glyphs.Value(h)
	}
	c.stats.Placeholders++
	return GlyphEntry{}
}

// ClearGlyphs drops every cached glyph and keeps the face records. Call it
// after the atlas was reset.
func (c *Cache) ClearGlyphs() {
	for _, rec := range c.faces {
		rec.glyphs.Clear()
	}
}

// Reset drops every record and releases the faces they hold.
func (c *Cache) Reset() {
	for key, rec := range c.faces {
		rec.drop()
		delete(c.faces, key)
	}
}

// Stats returns the cache counters.
func (c *Cache) Stats() Stats {
	s := c.stats
	s.Faces = len(c.faces)
	for _, rec := range c.faces {
		s.Glyphs += rec.glyphs.Len()
	}
	return s
}
