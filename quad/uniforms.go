package quad

import (
	"encoding/binary"
	"math"
)

// Uniform block sizes in bytes.
const (
	PSConstantsSize    = 64
	VSConstantsSize    = 16
	AtlasConstantsSize = 16
)

// PSConstants is the pixel-stage uniform block.
//
//	offset  0  vec4<f32>  background color (premultiplied)
//	offset 16  vec2<f32>  background cell size
//	offset 24  vec2<f32>  background cell count
//	offset 32  vec4<f32>  gamma ratios
//	offset 48  f32        enhanced contrast
//	offset 52  f32        underline width
//	offset 56  padding to 64
type PSConstants struct {
	BackgroundColor  [4]float32
	CellSize         [2]float32
	CellCount        [2]float32
	GammaRatios      [4]float32
	EnhancedContrast float32
	UnderlineWidth   float32
}

// Bytes encodes the block.
func (c *PSConstants) Bytes() []byte {
	b := make([]byte, PSConstantsSize)
	putFloats(b[0:], c.BackgroundColor[:]...)
	putFloats(b[16:], c.CellSize[:]...)
	putFloats(b[24:], c.CellCount[:]...)
	putFloats(b[32:], c.GammaRatios[:]...)
	putFloats(b[48:], c.EnhancedContrast, c.UnderlineWidth)
	return b
}

// VSConstants is the vertex-stage uniform block: a scale mapping pixel
// positions to clip space, padded to 16 bytes.
type VSConstants struct {
	PositionScale [2]float32
}

// NewVSConstants returns the scale for a target of the given pixel size.
func NewVSConstants(width, height int) VSConstants {
	return VSConstants{PositionScale: [2]float32{2 / float32(width), -2 / float32(height)}}
}

// Bytes encodes the block.
func (c *VSConstants) Bytes() []byte {
	b := make([]byte, VSConstantsSize)
	putFloats(b, c.PositionScale[:]...)
	return b
}

// AtlasConstants tells the pixel stage how to address the atlas storage
// buffer: texel (x, y) lives at index y*Width+x.
type AtlasConstants struct {
	Width, Height uint32
}

// Bytes encodes the block.
func (c *AtlasConstants) Bytes() []byte {
	b := make([]byte, AtlasConstantsSize)
	binary.LittleEndian.PutUint32(b[0:], c.Width)
	binary.LittleEndian.PutUint32(b[4:], c.Height)
	return b
}

func putFloats(b []byte, vs ...float32) {
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
}
