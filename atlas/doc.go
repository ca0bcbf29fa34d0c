// Package atlas packs glyph bitmaps into a single texture.
//
// [Packer] is a skyline bottom-left rectangle packer. It hands out disjoint
// rectangles until the surface is full and then reports [ErrExhausted]; it
// holds no retry policy. The owner either resets it (every rectangle
// handed out so far becomes invalid) or grows it with Resize (rectangles
// keep their position, the texture contents must be re-uploaded).
//
// [Surface] is the CPU copy of the atlas texture. It tracks the rows that
// changed since the last upload so only those are sent to the GPU.
//
// [NextSize] computes the next atlas size from the cell size, the render
// target size and the current atlas size.
package atlas
