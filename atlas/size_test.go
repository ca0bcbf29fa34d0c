package atlas

import (
	"image"
	"testing"
)

func TestNextSize(t *testing.T) {
	tests := []struct {
		name   string
		cur    image.Point
		cell   image.Point
		target image.Point
		max    int
		want   image.Point
	}{
		{"tiny font clamps to minimum", image.Point{}, image.Pt(4, 8), image.Pt(1920, 1080), 4096, image.Pt(128, 128)},
		{"fresh atlas sized by font", image.Point{}, image.Pt(10, 20), image.Pt(1920, 1080), 4096, image.Pt(256, 128)},
		{"growth doubles area", image.Pt(256, 128), image.Pt(10, 20), image.Pt(1920, 1080), 4096, image.Pt(256, 256)},
		{"capped by target size", image.Pt(2048, 2048), image.Pt(10, 20), image.Pt(800, 600), 4096, image.Pt(1024, 1024)},
		{"capped by max dimension", image.Pt(4096, 4096), image.Pt(10, 20), image.Pt(8000, 8000), 4096, image.Pt(4096, 4096)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextSize(tt.cur, tt.cell, tt.target, tt.max)
			if got != tt.want {
				t.Errorf("NextSize() = %v, want %v", got, tt.want)
			}
			if got.X < got.Y {
				t.Errorf("NextSize() = %v, width smaller than height", got)
			}
		})
	}
}
