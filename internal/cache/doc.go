// Package cache provides a cost-bounded LRU cache.
//
// Every entry has a cost (for glyph bitmaps, their size in bytes). When the
// total cost exceeds the limit, least recently used entries are evicted
// until it fits again.
//
//	c := cache.New[key, *raster.Bitmap](4<<20, bitmapCost)
//	c.Set(k, bm)
//	bm, ok := c.Get(k)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
