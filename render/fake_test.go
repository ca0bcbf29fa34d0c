// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/gpucore"
	"github.com/gogpu/termatlas/quad"
	"github.com/gogpu/termatlas/raster"
)

type fakeBuffer struct {
	desc   gpucore.BufferDesc
	data   []byte
	writes int
}

type submitted struct {
	load      gpucore.LoadOp
	draws     []gpucore.DrawRange
	instances []quad.Instance
}

// fakeDevice records everything the engine does with a device.
type fakeDevice struct {
	next      uint64
	buffers   map[gpucore.BufferID]*fakeBuffer
	pipelines map[gpucore.PipelineID]gpucore.PipelineDesc
	passes    []submitted
	writes    int

	failSubmit error
	failWrite  error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		buffers:   make(map[gpucore.BufferID]*fakeBuffer),
		pipelines: make(map[gpucore.PipelineID]gpucore.PipelineDesc),
	}
}

func (d *fakeDevice) CreateBuffer(desc *gpucore.BufferDesc) (gpucore.BufferID, error) {
	d.next++
	id := gpucore.BufferID(d.next)
	d.buffers[id] = &fakeBuffer{desc: *desc, data: make([]byte, desc.Size)}
	return id, nil
}

func (d *fakeDevice) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	if d.failWrite != nil {
		return d.failWrite
	}
	b, ok := d.buffers[id]
	if !ok {
		return gpucore.ErrUnknownResource
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		return fmt.Errorf("write of %d bytes at %d overflows %q (%d bytes)", len(data), offset, b.desc.Label, len(b.data))
	}
	copy(b.data[offset:], data)
	b.writes++
	d.writes++
	return nil
}

func (d *fakeDevice) DestroyBuffer(id gpucore.BufferID) { delete(d.buffers, id) }

func (d *fakeDevice) CreatePipeline(desc *gpucore.PipelineDesc) (gpucore.PipelineID, error) {
	d.next++
	id := gpucore.PipelineID(d.next)
	d.pipelines[id] = *desc
	return id, nil
}

func (d *fakeDevice) DestroyPipeline(id gpucore.PipelineID) { delete(d.pipelines, id) }

func (d *fakeDevice) Submit(pass *gpucore.RenderPass) error {
	if d.failSubmit != nil {
		return d.failSubmit
	}
	desc, ok := d.pipelines[pass.Pipeline]
	if !ok {
		return gpucore.ErrUnknownResource
	}
	if len(pass.Buffers) != len(desc.Bindings) {
		return errors.New("binding count mismatch")
	}
	for _, id := range pass.Buffers {
		if _, ok := d.buffers[id]; !ok {
			return gpucore.ErrUnknownResource
		}
	}
	inst := d.buffers[pass.Buffers[3]].data
	s := submitted{load: pass.Load, draws: append([]gpucore.DrawRange(nil), pass.Draws...)}
	for _, dr := range pass.Draws {
		for i := dr.First; i < dr.First+dr.Count; i++ {
			s.instances = append(s.instances, quad.DecodeInstance(inst[int(i)*quad.InstanceSize:]))
		}
	}
	d.passes = append(d.passes, s)
	return nil
}

func (d *fakeDevice) Limits() gpucore.Limits {
	return gpucore.Limits{MaxBufferSize: 256 << 20}
}

// drawn returns every instance submitted so far, in submission order.
func (d *fakeDevice) drawn() []quad.Instance {
	var all []quad.Instance
	for _, p := range d.passes {
		all = append(all, p.instances...)
	}
	return all
}

func (d *fakeDevice) buffer(label string) *fakeBuffer {
	for _, b := range d.buffers {
		if b.desc.Label == label {
			return b
		}
	}
	return nil
}

type testFace struct{ id uint64 }

func (f *testFace) ID() uint64 { return f.id }

func (f *testFace) GlyphIndex(rune) (uint16, bool) { return 0, false }

// countingRasterizer returns solid bitmaps of a fixed size.
type countingRasterizer struct {
	size   image.Point
	offset image.Point
	calls  map[uint16]int
}

func newCountingRasterizer(w, h int) *countingRasterizer {
	return &countingRasterizer{size: image.Pt(w, h), calls: make(map[uint16]int)}
}

func (r *countingRasterizer) Rasterize(req *raster.Request) (*raster.Bitmap, error) {
	r.calls[req.Glyph]++
	img := image.NewAlpha(image.Rectangle{Max: r.size})
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return &raster.Bitmap{Image: img, Offset: r.offset, Kind: raster.KindGrayscale}, nil
}

func (r *countingRasterizer) total() int {
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

type presenter struct {
	presents int
	err      error
}

func (p *presenter) Present() error {
	p.presents++
	return p.err
}

func testSettings() *termatlas.Settings {
	font := &termatlas.FontSettings{
		Generation:      1,
		CellSize:        image.Pt(10, 20),
		FontSize:        16,
		Baseline:        15,
		Descender:       5,
		ThinLineWidth:   1,
		Underline:       termatlas.DecorationPosition{Position: 17, Height: 1},
		DoubleUnderline: [2]termatlas.DecorationPosition{{Position: 16, Height: 1}, {Position: 19, Height: 1}},
		Strikethrough:   termatlas.DecorationPosition{Position: 10, Height: 1},
		GridLeft:        termatlas.DecorationPosition{Position: 0, Height: 1},
		GridTop:         termatlas.DecorationPosition{Position: 0, Height: 1},
		GridRight:       termatlas.DecorationPosition{Position: 9, Height: 1},
		GridBottom:      termatlas.DecorationPosition{Position: 19, Height: 1},
	}
	return &termatlas.Settings{
		Generation: 1,
		TargetSize: image.Pt(800, 480),
		CellCount:  image.Pt(80, 24),
		Font:       font,
		Cursor:     &termatlas.CursorSettings{Type: termatlas.CursorVerticalBar, Color: 0xff00ff00},
		Misc: &termatlas.MiscSettings{
			Generation:      1,
			BackgroundColor: 0xff000000,
			SelectionColor:  0x80ff8000,
			GammaRatios:     [4]float32{0, 0, 0, 0},
		},
	}
}

// textRow shapes glyphs one per cell, all from face.
func textRow(face termatlas.FontFace, glyphs ...uint16) *termatlas.ShapedRow {
	row := &termatlas.ShapedRow{
		Mappings:      []termatlas.FontMapping{{Face: face, GlyphsFrom: 0, GlyphsTo: len(glyphs)}},
		GlyphIndices:  glyphs,
		GlyphAdvances: make([]float32, len(glyphs)),
		Colors:        make([]uint32, len(glyphs)),
	}
	for i := range glyphs {
		row.GlyphAdvances[i] = 10
		row.Colors[i] = 0xffffffff
	}
	return row
}

func testPayload(dev gpucore.Device, rows ...*termatlas.ShapedRow) *termatlas.Payload {
	return &termatlas.Payload{
		Device:   dev,
		Settings: testSettings(),
		Rows:     rows,
	}
}

// testEngine builds an engine around rz without the bitmap cache, so that
// rz sees every rasterization.
func testEngine(t *testing.T, rz raster.Rasterizer, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RasterCacheBytes = 0
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(WithConfig(cfg), WithRasterizer(rz))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}
