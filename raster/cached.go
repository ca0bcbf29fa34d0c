package raster

import (
	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/internal/cache"
)

type cacheKey struct {
	face      uint64
	glyph     uint16
	rendition termatlas.LineRendition
	box       bool
	metrics   Metrics
}

// CacheStats reports the effectiveness of a Cached rasterizer.
type CacheStats struct {
	Entries   int
	Bytes     int64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cached memoizes the bitmaps of another rasterizer, bounded by their total
// size. After an atlas reset the same glyphs are requested again; the cache
// turns those requests into copies instead of outline rasterization.
//
// Bitmaps returned by Cached are shared and must not be modified.
type Cached struct {
	next    Rasterizer
	bitmaps *cache.Cache[cacheKey, *Bitmap]
}

// NewCached wraps next with a cache holding up to maxBytes of pixels.
func NewCached(next Rasterizer, maxBytes int64) *Cached {
	return &Cached{
		next: next,
		bitmaps: cache.New[cacheKey, *Bitmap](maxBytes, func(b *Bitmap) int64 {
			return max(b.Bytes(), 1)
		}),
	}
}

// Rasterize implements Rasterizer. Failed requests are not cached.
func (c *Cached) Rasterize(req *Request) (*Bitmap, error) {
	if req.Face == nil {
		return c.next.Rasterize(req)
	}
	key := cacheKey{
		face:      req.Face.ID(),
		glyph:     req.Glyph,
		rendition: req.Rendition,
		box:       req.Box,
		metrics:   req.Metrics,
	}
	return c.bitmaps.GetOrCreate(key, func() (*Bitmap, error) {
		return c.next.Rasterize(req)
	})
}

// Purge drops every cached bitmap.
func (c *Cached) Purge() {
	c.bitmaps.Clear()
}

// Stats returns the cache statistics.
func (c *Cached) Stats() CacheStats {
	s := c.bitmaps.Stats()
	return CacheStats{
		Entries:   s.Len,
		Bytes:     s.Cost,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
	}
}
