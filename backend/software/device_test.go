package software

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/termatlas/backend"
	"github.com/gogpu/termatlas/gpucore"
	"github.com/gogpu/termatlas/quad"
)

type passSetup struct {
	ps        quad.PSConstants
	atlasSize image.Point
	atlas     []uint32
	bg        []uint32
	instances []quad.Instance
}

func words(ws []uint32) []byte {
	b := make([]byte, len(ws)*4)
	for i, w := range ws {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}

func (s *passSetup) pass(t *testing.T, d *Device, w, h int) *gpucore.RenderPass {
	t.Helper()
	pipe, err := d.CreatePipeline(&gpucore.PipelineDesc{Bindings: quadLayout})
	if err != nil {
		t.Fatalf("CreatePipeline: %v", err)
	}
	vs := quad.NewVSConstants(w, h)
	ac := quad.AtlasConstants{Width: uint32(s.atlasSize.X), Height: uint32(s.atlasSize.Y)}
	inst := make([]byte, len(s.instances)*quad.InstanceSize)
	for i := range s.instances {
		s.instances[i].Put(inst[i*quad.InstanceSize:])
	}
	data := [][]byte{vs.Bytes(), s.ps.Bytes(), ac.Bytes(), inst, words(s.atlas), words(s.bg)}
	ids := make([]gpucore.BufferID, len(data))
	for i, b := range data {
		id, err := d.CreateBuffer(&gpucore.BufferDesc{Size: uint64(len(b))})
		if err != nil {
			t.Fatalf("CreateBuffer: %v", err)
		}
		if err := d.WriteBuffer(id, 0, b); err != nil {
			t.Fatalf("WriteBuffer: %v", err)
		}
		ids[i] = id
	}
	return &gpucore.RenderPass{
		TargetWidth:         uint32(w),
		TargetHeight:        uint32(h),
		Load:                gpucore.LoadClear,
		ClearColor:          [4]float64{0, 0, 0, 1},
		Pipeline:            pipe,
		Buffers:             ids,
		VerticesPerInstance: 6,
		Draws:               []gpucore.DrawRange{{First: 0, Count: uint32(len(s.instances))}},
	}
}

func submit(t *testing.T, s *passSetup, w, h int) *image.RGBA {
	t.Helper()
	d := New()
	defer d.Close()
	if err := d.Submit(s.pass(t, d, w, h)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return d.Offscreen()
}

func checkPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	if got := img.RGBAAt(x, y); got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

var (
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
)

func TestDevice_SolidQuad(t *testing.T) {
	s := &passSetup{
		atlasSize: image.Pt(1, 1),
		atlas:     []uint32{0},
		instances: []quad.Instance{{
			Shading:  quad.ShadingSolidLine,
			Position: quad.I16x2{X: 2, Y: 3},
			Size:     quad.U16x2{X: 4, Y: 2},
			Color:    0xff0000ff,
		}},
	}
	img := submit(t, s, 16, 8)
	if img.Rect.Size() != image.Pt(16, 8) {
		t.Fatalf("offscreen size = %v", img.Rect.Size())
	}
	checkPixel(t, img, 0, 0, black)
	checkPixel(t, img, 2, 3, red)
	checkPixel(t, img, 5, 4, red)
	checkPixel(t, img, 6, 4, black)
	checkPixel(t, img, 2, 5, black)
}

func TestDevice_TranslucentBlend(t *testing.T) {
	s := &passSetup{
		atlasSize: image.Pt(1, 1),
		atlas:     []uint32{0},
		instances: []quad.Instance{{
			Shading: quad.ShadingSelection,
			Size:    quad.U16x2{X: 4, Y: 4},
			Color:   0x80ffffff,
		}},
	}
	img := submit(t, s, 4, 4)
	checkPixel(t, img, 1, 1, color.RGBA{128, 128, 128, 255})
}

func TestDevice_BackgroundCells(t *testing.T) {
	s := &passSetup{
		ps: quad.PSConstants{
			BackgroundColor: [4]float32{0, 0, 1, 1},
			CellSize:        [2]float32{10, 10},
			CellCount:       [2]float32{2, 1},
		},
		atlasSize: image.Pt(1, 1),
		atlas:     []uint32{0},
		bg:        []uint32{0xff0000ff, 0xff00ff00},
		instances: []quad.Instance{{
			Shading: quad.ShadingBackground,
			Size:    quad.U16x2{X: 30, Y: 20},
		}},
	}
	img := submit(t, s, 30, 20)
	checkPixel(t, img, 5, 5, red)
	checkPixel(t, img, 15, 5, green)
	// Outside the grid the background color is used.
	checkPixel(t, img, 25, 5, color.RGBA{0, 0, 255, 255})
	checkPixel(t, img, 5, 15, color.RGBA{0, 0, 255, 255})
}

func TestDevice_DottedLine(t *testing.T) {
	s := &passSetup{
		ps:        quad.PSConstants{UnderlineWidth: 1},
		atlasSize: image.Pt(1, 1),
		atlas:     []uint32{0},
		instances: []quad.Instance{{
			Shading:  quad.ShadingDottedLine,
			Position: quad.I16x2{X: 1},
			Size:     quad.U16x2{X: 8, Y: 1},
			Color:    0xffffffff,
		}},
	}
	img := submit(t, s, 10, 1)
	want := []color.RGBA{black, white, white, black, black, white, white, black, black, black}
	for x, c := range want {
		checkPixel(t, img, x, 0, c)
	}
}

func TestDevice_GrayscaleText(t *testing.T) {
	s := &passSetup{
		atlasSize: image.Pt(2, 2),
		atlas:     []uint32{0, 0xffffffff, 0, 0},
		instances: []quad.Instance{{
			Shading:  quad.ShadingTextGrayscale,
			Position: quad.I16x2{X: 0, Y: 0},
			Size:     quad.U16x2{X: 2, Y: 1},
			TexCoord: quad.U16x2{X: 0, Y: 0},
			Color:    0xff00ff00,
		}},
	}
	img := submit(t, s, 2, 2)
	checkPixel(t, img, 0, 0, black)
	checkPixel(t, img, 1, 0, green)
	checkPixel(t, img, 1, 1, black)
}

func TestDevice_Passthrough(t *testing.T) {
	s := &passSetup{
		atlasSize: image.Pt(1, 1),
		atlas:     []uint32{0xff0000ff},
		instances: []quad.Instance{{
			Shading: quad.ShadingTextPassthrough,
			Size:    quad.U16x2{X: 1, Y: 1},
		}},
	}
	checkPixel(t, submit(t, s, 1, 1), 0, 0, red)
}

func TestDevice_LoadKeep(t *testing.T) {
	d := New()
	defer d.Close()
	s := &passSetup{
		atlasSize: image.Pt(1, 1),
		atlas:     []uint32{0},
		instances: []quad.Instance{{Shading: quad.ShadingSolidLine, Size: quad.U16x2{X: 1, Y: 1}, Color: 0xff0000ff}},
	}
	if err := d.Submit(s.pass(t, d, 2, 1)); err != nil {
		t.Fatal(err)
	}
	s2 := &passSetup{
		atlasSize: image.Pt(1, 1),
		atlas:     []uint32{0},
		instances: []quad.Instance{{Shading: quad.ShadingSolidLine, Position: quad.I16x2{X: 1}, Size: quad.U16x2{X: 1, Y: 1}, Color: 0xff00ff00}},
	}
	p := s2.pass(t, d, 2, 1)
	p.Load = gpucore.LoadKeep
	if err := d.Submit(p); err != nil {
		t.Fatal(err)
	}
	checkPixel(t, d.Offscreen(), 0, 0, red)
	checkPixel(t, d.Offscreen(), 1, 0, green)
}

func TestDevice_ExternalTarget(t *testing.T) {
	d := New()
	defer d.Close()
	s := &passSetup{
		atlasSize: image.Pt(1, 1),
		atlas:     []uint32{0},
		instances: []quad.Instance{{Shading: quad.ShadingCursor, Size: quad.U16x2{X: 1, Y: 1}, Color: 0xffffffff}},
	}
	dst := image.NewRGBA(image.Rect(0, 0, 3, 3))
	p := s.pass(t, d, 3, 3)
	p.Target = dst
	if err := d.Submit(p); err != nil {
		t.Fatal(err)
	}
	checkPixel(t, dst, 0, 0, white)
	checkPixel(t, dst, 2, 2, black)
	if d.Offscreen() != nil {
		t.Error("offscreen image created for an external target")
	}

	p.Target = image.NewGray(image.Rect(0, 0, 3, 3))
	if err := d.Submit(p); !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("Submit(Gray) = %v, want ErrUnsupportedTarget", err)
	}
}

func TestDevice_Errors(t *testing.T) {
	d := New()
	defer d.Close()

	id, err := d.CreateBuffer(&gpucore.BufferDesc{Size: 8})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.WriteBuffer(id, 2, make([]byte, 4)); !errors.Is(err, ErrUnaligned) {
		t.Errorf("unaligned write = %v", err)
	}
	if err := d.WriteBuffer(id, 4, make([]byte, 8)); !errors.Is(err, ErrBufferOverflow) {
		t.Errorf("overflowing write = %v", err)
	}
	d.DestroyBuffer(id)
	if err := d.WriteBuffer(id, 0, make([]byte, 4)); !errors.Is(err, gpucore.ErrUnknownResource) {
		t.Errorf("write to destroyed buffer = %v", err)
	}
	if _, err := d.CreateBuffer(&gpucore.BufferDesc{Size: maxBufferSize + 1}); err == nil {
		t.Error("oversized buffer accepted")
	}
	if _, err := d.CreatePipeline(&gpucore.PipelineDesc{Bindings: quadLayout[:3]}); !errors.Is(err, ErrUnsupportedPipeline) {
		t.Errorf("short layout = %v", err)
	}
	if err := d.Submit(&gpucore.RenderPass{Pipeline: 99}); !errors.Is(err, gpucore.ErrUnknownResource) {
		t.Errorf("unknown pipeline = %v", err)
	}
}

func TestDevice_DrawPastInstances(t *testing.T) {
	d := New()
	defer d.Close()
	s := &passSetup{
		atlasSize: image.Pt(1, 1),
		atlas:     []uint32{0},
		instances: []quad.Instance{{Shading: quad.ShadingCursor}},
	}
	p := s.pass(t, d, 1, 1)
	p.Draws = []gpucore.DrawRange{{First: 0, Count: 2}}
	if err := d.Submit(p); err == nil {
		t.Error("draw past the instance buffer accepted")
	}
}

func TestRegistered(t *testing.T) {
	dev, err := backend.Open(backend.NameSoftware)
	if err != nil {
		t.Fatalf("Open(%q): %v", backend.NameSoftware, err)
	}
	sw, ok := dev.(*Device)
	if !ok {
		t.Fatalf("Open(%q) = %T", backend.NameSoftware, dev)
	}
	sw.Close()
}
