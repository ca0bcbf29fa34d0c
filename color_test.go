package termatlas

import "testing"

func TestColorFromU32(t *testing.T) {
	got := ColorFromU32(0x80FF0000)
	want := [4]float32{0, 0, 1, float32(0x80) / 255}
	if got != want {
		t.Errorf("ColorFromU32(0x80FF0000) = %v, want %v", got, want)
	}
}

func TestPremultiplyU32(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x00FFFFFF, 0x00000000},
		{0x80FF0000, 0x80800000},
		{0xFF123456, 0xFF123456},
	}
	for _, tt := range tests {
		if got := PremultiplyU32(tt.in); got != tt.want {
			t.Errorf("PremultiplyU32(%#08x) = %#08x, want %#08x", tt.in, got, tt.want)
		}
	}
}

func TestPackRGBA(t *testing.T) {
	if got := PackRGBA(0x11, 0x22, 0x33, 0x44); got != 0x44332211 {
		t.Errorf("PackRGBA = %#08x, want 0x44332211", got)
	}
	if got := InvertRGB(0xFF000000); got != 0xFFFFFFFF {
		t.Errorf("InvertRGB = %#08x, want 0xFFFFFFFF", got)
	}
}
