package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestNewFace_Errors(t *testing.T) {
	if _, err := NewFace(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("NewFace(nil) error = %v, want ErrEmptyFontData", err)
	}
	if _, err := NewFace([]byte("not a font")); !errors.Is(err, ErrInvalidFont) {
		t.Errorf("NewFace(garbage) error = %v, want ErrInvalidFont", err)
	}
}

func TestFace_ID(t *testing.T) {
	a, err := NewFace(goregular.TTF)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	b, err := NewFace(goregular.TTF)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	if a.ID() == 0 || b.ID() == 0 {
		t.Errorf("IDs must be non-zero: %d, %d", a.ID(), b.ID())
	}
	if a.ID() == b.ID() {
		t.Errorf("two faces share ID %d", a.ID())
	}
	if DefaultFace() != DefaultFace() {
		t.Error("DefaultFace should return the same face")
	}
}

func TestFace_GlyphIndex(t *testing.T) {
	f := DefaultFace()
	if gi, ok := f.GlyphIndex('A'); !ok || gi == 0 {
		t.Errorf("GlyphIndex('A') = %d, %v", gi, ok)
	}
	if _, ok := f.GlyphIndex('中'); ok {
		t.Error("Go Mono should not have CJK glyphs")
	}
	if f.Name() == "" {
		t.Error("Name() is empty")
	}
}

func TestFace_RetainRelease(t *testing.T) {
	f, err := NewFace(goregular.TTF)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	f.Retain()
	f.Retain()
	f.Release()
	if got := f.Refs(); got != 1 {
		t.Errorf("Refs() = %d, want 1", got)
	}
}
