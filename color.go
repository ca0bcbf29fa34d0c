package termatlas

// Colors are packed as 0xAABBGGRR: red in the lowest byte, matching the byte
// order the pixel stage unpacks.

// ColorFromU32 unpacks a color into normalized RGBA.
func ColorFromU32(c uint32) [4]float32 {
	return [4]float32{
		float32(c&0xff) / 255,
		float32(c>>8&0xff) / 255,
		float32(c>>16&0xff) / 255,
		float32(c>>24) / 255,
	}
}

// ColorFromU32Premultiplied unpacks a color and premultiplies it by alpha.
func ColorFromU32Premultiplied(c uint32) [4]float32 {
	f := ColorFromU32(c)
	f[0] *= f[3]
	f[1] *= f[3]
	f[2] *= f[3]
	return f
}

// PremultiplyU32 premultiplies a packed color by its own alpha.
func PremultiplyU32(c uint32) uint32 {
	a := c >> 24
	r := (c&0xff*a + 127) / 255
	g := (c>>8&0xff*a + 127) / 255
	b := (c>>16&0xff*a + 127) / 255
	return a<<24 | b<<16 | g<<8 | r
}

// PackRGBA packs 8-bit channels into a color.
func PackRGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// InvertRGB flips the color channels and keeps alpha.
func InvertRGB(c uint32) uint32 {
	return c ^ 0x00FFFFFF
}
