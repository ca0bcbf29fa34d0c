package flatset

// HashUint16 is a multiplicative hash for glyph indices.
func HashUint16(v uint16) uint64 {
	h := uint64(v) * 0x9E3779B97F4A7C15
	return h ^ h>>29
}
