package quad

import "encoding/binary"

// InstanceSize is the encoded size of an Instance in bytes.
const InstanceSize = 20

// I16x2 is a pair of signed 16-bit values.
type I16x2 struct {
	X, Y int16
}

// U16x2 is a pair of unsigned 16-bit values.
type U16x2 struct {
	X, Y uint16
}

// Instance is one drawn rectangle: a character cell, a line segment, a
// cursor strip or a selection strip.
//
// Encoded layout, little endian, every field 32-bit aligned:
//
//	offset  0  u32     shading type
//	offset  4  i16x2   position (pixels)
//	offset  8  u16x2   size (pixels)
//	offset 12  u16x2   atlas texcoord (texels)
//	offset 16  u32     color (0xAABBGGRR)
type Instance struct {
	Shading  ShadingType
	Position I16x2
	Size     U16x2
	TexCoord U16x2
	Color    uint32
}

// Put encodes the instance into b, which must hold InstanceSize bytes.
func (q *Instance) Put(b []byte) {
	_ = b[InstanceSize-1]
	binary.LittleEndian.PutUint32(b[0:], uint32(q.Shading))
	binary.LittleEndian.PutUint16(b[4:], uint16(q.Position.X))
	binary.LittleEndian.PutUint16(b[6:], uint16(q.Position.Y))
	binary.LittleEndian.PutUint16(b[8:], q.Size.X)
	binary.LittleEndian.PutUint16(b[10:], q.Size.Y)
	binary.LittleEndian.PutUint16(b[12:], q.TexCoord.X)
	binary.LittleEndian.PutUint16(b[14:], q.TexCoord.Y)
	binary.LittleEndian.PutUint32(b[16:], q.Color)
}

// DecodeInstance decodes an instance written by Put.
func DecodeInstance(b []byte) Instance {
	_ = b[InstanceSize-1]
	return Instance{
		Shading:  ShadingType(binary.LittleEndian.Uint32(b[0:])),
		Position: I16x2{int16(binary.LittleEndian.Uint16(b[4:])), int16(binary.LittleEndian.Uint16(b[6:]))},
		Size:     U16x2{binary.LittleEndian.Uint16(b[8:]), binary.LittleEndian.Uint16(b[10:])},
		TexCoord: U16x2{binary.LittleEndian.Uint16(b[12:]), binary.LittleEndian.Uint16(b[14:])},
		Color:    binary.LittleEndian.Uint32(b[16:]),
	}
}
