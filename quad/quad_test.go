package quad

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestInstance_Layout(t *testing.T) {
	q := Instance{
		Shading:  ShadingTextGrayscale,
		Position: I16x2{-3, 400},
		Size:     U16x2{9, 17},
		TexCoord: U16x2{1024, 7},
		Color:    0xFF336699,
	}
	b := make([]byte, InstanceSize)
	q.Put(b)

	want := []byte{
		1, 0, 0, 0,
		0xfd, 0xff, 0x90, 0x01,
		9, 0, 17, 0,
		0x00, 0x04, 7, 0,
		0x99, 0x66, 0x33, 0xff,
	}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("byte %d = %#02x, want %#02x (got % x)", i, b[i], want[i], b)
		}
	}
	if got := DecodeInstance(b); got != q {
		t.Errorf("DecodeInstance() = %+v, want %+v", got, q)
	}
}

func TestBatch_AppendGrows(t *testing.T) {
	b := NewBatch(0)
	if b.Last() != nil {
		t.Fatal("Last() on empty batch should be nil")
	}
	for i := 0; i < minBatchCapacity+1; i++ {
		q := b.Append()
		*q = Instance{Shading: ShadingSolidLine, Position: I16x2{int16(i), 0}}
	}
	if b.Len() != minBatchCapacity+1 {
		t.Errorf("Len() = %d", b.Len())
	}
	if b.Cap() != 2*minBatchCapacity {
		t.Errorf("Cap() = %d, want %d", b.Cap(), 2*minBatchCapacity)
	}
	if b.items[10].Position.X != 10 {
		t.Errorf("instance 10 lost during growth: %+v", b.items[10])
	}
	if got := len(b.Bytes()); got != b.Len()*InstanceSize {
		t.Errorf("len(Bytes()) = %d", got)
	}

	b.Reset()
	if b.Len() != 0 || b.Cap() != 2*minBatchCapacity {
		t.Errorf("Reset() Len %d Cap %d", b.Len(), b.Cap())
	}
}

func TestBatch_LastExtendsInPlace(t *testing.T) {
	b := NewBatch(4)
	*b.Append() = Instance{Shading: ShadingSolidLine, Size: U16x2{8, 1}}
	b.Last().Size.X += 8
	if b.Len() != 1 || b.items[0].Size.X != 16 {
		t.Errorf("merged instance = %+v, len %d", b.items[0], b.Len())
	}
}

func TestBatch_Runs(t *testing.T) {
	b := NewBatch(8)
	for _, s := range []ShadingType{
		ShadingBackground,
		ShadingTextGrayscale, ShadingTextClearType, ShadingDottedLine, ShadingTextGrayscale,
		ShadingSolidLine, ShadingSolidLine,
		ShadingCursor,
		ShadingSelection,
	} {
		*b.Append() = Instance{Shading: s}
	}
	runs := b.Runs()
	want := []Run{
		{GroupBackground, 0, 1},
		{GroupText, 1, 4},
		{GroupLines, 5, 2},
		{GroupCursor, 7, 1},
		{GroupSelection, 8, 1},
	}
	if len(runs) != len(want) {
		t.Fatalf("Runs() = %+v, want %+v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("run %d = %+v, want %+v", i, runs[i], want[i])
		}
	}
}

func TestPSConstants_Layout(t *testing.T) {
	c := PSConstants{
		BackgroundColor:  [4]float32{0.1, 0.2, 0.3, 1},
		CellSize:         [2]float32{9, 18},
		CellCount:        [2]float32{80, 24},
		GammaRatios:      [4]float32{1, 2, 3, 4},
		EnhancedContrast: 0.5,
		UnderlineWidth:   2,
	}
	b := c.Bytes()
	if len(b) != PSConstantsSize || len(b)%16 != 0 {
		t.Fatalf("size = %d", len(b))
	}
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])) }
	checks := []struct {
		off  int
		want float32
	}{
		{0, 0.1}, {12, 1}, {16, 9}, {20, 18}, {24, 80}, {28, 24}, {32, 1}, {44, 4}, {48, 0.5}, {52, 2},
	}
	for _, c := range checks {
		if got := f(c.off); got != c.want {
			t.Errorf("float at %d = %v, want %v", c.off, got, c.want)
		}
	}
}

func TestVSConstants(t *testing.T) {
	c := NewVSConstants(800, 400)
	b := c.Bytes()
	if len(b) != VSConstantsSize {
		t.Fatalf("size = %d", len(b))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4:])); got != -0.005 {
		t.Errorf("scale y = %v, want -0.005", got)
	}
}

func TestShadingType_Group(t *testing.T) {
	prev := GroupBackground
	for s := ShadingBackground; s <= ShadingSelection; s++ {
		g := s.Group()
		if g < prev {
			t.Errorf("%v group %d decreases after %d", s, g, prev)
		}
		prev = g
	}
	if ShadingDottedLineWide.Group() != GroupText {
		t.Error("dotted lines belong to the text group")
	}
}
