// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/atlas"
	"github.com/gogpu/termatlas/glyphcache"
	"github.com/gogpu/termatlas/gpucore"
	"github.com/gogpu/termatlas/quad"
	"github.com/gogpu/termatlas/raster"
)

// Stats counts engine activity since the engine was created.
type Stats struct {
	Frames uint64

	GlyphHits   uint64
	GlyphMisses uint64

	// AtlasResets counts atlas resets, from font changes and from
	// exhaustion at the maximum size. AtlasResizes counts growths.
	AtlasResets  uint64
	AtlasResizes uint64

	// AtlasGlyphs and AtlasUtilization describe the current atlas: the
	// rectangles packed since its last reset and the covered fraction.
	AtlasGlyphs      int
	AtlasUtilization float64

	// Flushes counts submits; a frame has one plus one per mid-frame
	// atlas reset.
	Flushes   uint64
	DrawCalls uint64
	Instances uint64

	AtlasUploads      uint64
	BackgroundUploads uint64
	ConstantUploads   uint64
	ShaderReloads     uint64
}

// applied records the inputs the device state was last built from.
type applied struct {
	valid bool

	settings   termatlas.Generation
	font       termatlas.Generation
	misc       termatlas.Generation
	background termatlas.Generation
	cellCount  image.Point
	targetSize image.Point
	cursor     bgKey
}

// frame is the per-frame drawing state.
type frame struct {
	p       *termatlas.Payload
	font    *termatlas.FontSettings
	cursor  cursorState
	submits int

	// err is the first device error hit while drawing. Drawing stops at the
	// next check.
	err error
}

// Engine is the GPU terminal backend. It is not safe for concurrent use.
type Engine struct {
	cfg        Config
	rasterizer raster.Rasterizer
	post       PostProcessor
	fallback   gpucore.Device

	state   termatlas.State
	lostErr error
	stats   Stats

	res     *resources
	packer  *atlas.Packer
	surface *atlas.Surface
	glyphs  *glyphcache.Cache
	batch   *quad.Batch

	applied     applied
	frame       frame
	maxAtlasDim int

	watcher *shaderWatcher
	dumper  *frameDumper

	glyphX    []float32
	bgScratch []byte
}

var _ termatlas.Backend = (*Engine)(nil)

// New creates an engine. No device resources are created until the first
// frame.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{cfg: DefaultConfig()}
	for _, o := range opts {
		o(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if e.rasterizer == nil {
		e.rasterizer = raster.NewOutline()
	}
	if e.cfg.RasterCacheBytes > 0 {
		e.rasterizer = raster.NewCached(e.rasterizer, e.cfg.RasterCacheBytes)
	}
	e.batch = quad.NewBatch(e.cfg.InitialInstanceCapacity)
	e.packer = atlas.NewPacker(atlas.MinSize, atlas.MinSize, e.cfg.GlyphPadding)
	e.surface = atlas.NewSurface(atlas.MinSize, atlas.MinSize)
	e.surface.SetColorize(e.cfg.Debug.Has(termatlas.DebugAtlasColorize))
	e.glyphs = glyphcache.New(e.packer, e.surface, e.rasterizer)
	if e.cfg.Debug.Has(termatlas.DebugHotReload) {
		e.watcher = &shaderWatcher{path: e.cfg.ShaderPath, interval: e.cfg.HotReloadInterval}
	}
	if e.cfg.Debug.Has(termatlas.DebugFrameDump) {
		d, err := newFrameDumper(e.cfg.DumpDir)
		if err != nil {
			return nil, err
		}
		e.dumper = d
	}
	return e, nil
}

// State returns the lifecycle state.
func (e *Engine) State() termatlas.State { return e.state }

// Stats returns the engine counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	gs := e.glyphs.Stats()
	s.GlyphHits, s.GlyphMisses = gs.Hits, gs.Misses
	s.AtlasGlyphs, s.AtlasUtilization = e.packer.Allocated(), e.packer.Utilization()
	return s
}

// GlyphStats returns the glyph cache counters.
func (e *Engine) GlyphStats() glyphcache.Stats { return e.glyphs.Stats() }

// Atlas returns the CPU copy of the glyph atlas. It is only valid until the
// next Render.
func (e *Engine) Atlas() image.Image { return e.surface.Image() }

// RequiresContinuousRedraw implements termatlas.Backend.
func (e *Engine) RequiresContinuousRedraw() bool {
	return (e.post != nil && e.post.Animated()) || e.watcher != nil
}

// ReleaseResources implements termatlas.Backend.
func (e *Engine) ReleaseResources() {
	if e.res != nil {
		e.res.release()
		e.res = nil
	}
	e.glyphs.Reset()
	e.batch.Reset()
	e.applied = applied{}
	e.frame = frame{}
	e.lostErr = nil
	e.state = termatlas.StateUninitialized
}

// Render implements termatlas.Backend.
func (e *Engine) Render(p *termatlas.Payload) error {
	if e.state == termatlas.StateLost {
		return e.lostErr
	}
	if p == nil {
		return fmt.Errorf("%w: nil payload", termatlas.ErrInvalidPayload)
	}
	if p.Device == nil && e.fallback != nil {
		withDevice := *p
		withDevice.Device = e.fallback
		p = &withDevice
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if e.res != nil && e.res.dev != p.Device {
		termatlas.Logger().Info("render: device changed, releasing resources")
		e.ReleaseResources()
	}

	e.state = termatlas.StateValidating
	if err := e.validate(p); err != nil {
		return e.lose(err)
	}

	e.state = termatlas.StateDrawing
	e.draw()
	if e.frame.err != nil {
		return e.lose(e.frame.err)
	}

	e.state = termatlas.StatePresenting
	if err := e.finish(); err != nil {
		return e.lose(err)
	}
	if p.Surface != nil {
		if err := p.Surface.Present(); err != nil {
			if errors.Is(err, termatlas.ErrDeviceLost) {
				return e.lose(err)
			}
			e.state = termatlas.StateReady
			return fmt.Errorf("render: present: %w", err)
		}
	}
	e.state = termatlas.StateReady
	e.stats.Frames++
	e.frame.p = nil
	return nil
}

func (e *Engine) lose(err error) error {
	if !errors.Is(err, termatlas.ErrDeviceLost) {
		err = fmt.Errorf("%w: %w", termatlas.ErrDeviceLost, err)
	}
	termatlas.Logger().Error("render: device lost", "err", err)
	e.state = termatlas.StateLost
	e.lostErr = err
	return err
}

// validate brings device state up to date with p. Only inputs whose
// generation changed are re-uploaded.
func (e *Engine) validate(p *termatlas.Payload) error {
	s := p.Settings
	if e.res == nil {
		res, err := newResources(p.Device, quadShaderWGSL)
		if err != nil {
			return err
		}
		e.res = res
		e.applied = applied{}
		e.maxAtlasDim = maxAtlasDim(e.cfg.MaxAtlasSize, p.Device.Limits())
	}
	e.reloadShader()

	a := &e.applied
	fontChanged := !a.valid || s.Font.Generation != a.font
	miscChanged := !a.valid || s.Misc.Generation != a.misc
	viewportChanged := !a.valid || s.CellCount != a.cellCount || s.TargetSize != a.targetSize
	settingsChanged := !a.valid || s.Generation != a.settings

	e.frame = frame{p: p, font: s.Font, cursor: newCursorState(p)}

	if fontChanged {
		e.glyphs.Reset()
		e.glyphs.SetFont(s.Font)
		e.resetAtlas(e.initialAtlasSize(s.Font.CellSize, s.TargetSize))
		termatlas.Logger().Debug("render: font changed",
			"cell", s.Font.CellSize, "atlas", e.surface.Size())
	}
	if settingsChanged || fontChanged || miscChanged || viewportChanged {
		if err := e.uploadConstants(p); err != nil {
			return err
		}
	}
	cells := s.CellCount.X * s.CellCount.Y
	if err := e.res.ensureBackground(cells); err != nil {
		return err
	}
	cursorKey := e.frame.cursor.bgKey()
	if viewportChanged || miscChanged || p.BackgroundGeneration != a.background || cursorKey != a.cursor {
		if err := e.uploadBackground(p); err != nil {
			return err
		}
	}

	*a = applied{
		valid:      true,
		settings:   s.Generation,
		font:       s.Font.Generation,
		misc:       s.Misc.Generation,
		background: p.BackgroundGeneration,
		cellCount:  s.CellCount,
		targetSize: s.TargetSize,
		cursor:     cursorKey,
	}
	return nil
}

func maxAtlasDim(configured int, limits gpucore.Limits) int {
	dim := configured
	if limits.MaxBufferSize > 0 {
		side := int(math.Sqrt(float64(limits.MaxBufferSize / 4)))
		dim = min(dim, side)
	}
	return max(dim, atlas.MinSize)
}

func (e *Engine) initialAtlasSize(cell, target image.Point) image.Point {
	if c := e.cfg.InitialAtlasSize; c != (image.Point{}) {
		return image.Pt(min(c.X, e.maxAtlasDim), min(c.Y, e.maxAtlasDim))
	}
	return atlas.NextSize(image.Point{}, cell, target, e.maxAtlasDim)
}

func (e *Engine) uploadConstants(p *termatlas.Payload) error {
	s := p.Settings
	vs := quad.NewVSConstants(s.TargetSize.X, s.TargetSize.Y)
	if err := e.res.dev.WriteBuffer(e.res.vsConstants, 0, vs.Bytes()); err != nil {
		return err
	}
	ps := quad.PSConstants{
		BackgroundColor:  termatlas.ColorFromU32Premultiplied(s.Misc.BackgroundColor),
		CellSize:         [2]float32{float32(s.Font.CellSize.X), float32(s.Font.CellSize.Y)},
		CellCount:        [2]float32{float32(s.CellCount.X), float32(s.CellCount.Y)},
		GammaRatios:      s.Misc.GammaRatios,
		EnhancedContrast: s.Misc.EnhancedContrast,
		UnderlineWidth:   float32(s.Font.Underline.Height),
	}
	if err := e.res.dev.WriteBuffer(e.res.psConstants, 0, ps.Bytes()); err != nil {
		return err
	}
	e.stats.ConstantUploads++
	return nil
}

// uploadBackground writes the per-cell colors with block cursors painted
// in.
func (e *Engine) uploadBackground(p *termatlas.Payload) error {
	s := p.Settings
	cols := s.CellCount.X
	cells := cols * s.CellCount.Y
	if cap(e.bgScratch) < cells*4 {
		e.bgScratch = make([]byte, cells*4)
	}
	buf := e.bgScratch[:cells*4]
	for i := range cells {
		c := s.Misc.BackgroundColor
		if p.Background != nil {
			c = p.Background[i]
		}
		putU32(buf[i*4:], c)
	}
	cur := &e.frame.cursor
	if cur.block {
		for y := cur.cells.Min.Y; y < cur.cells.Max.Y; y++ {
			for x := cur.cells.Min.X; x < cur.cells.Max.X; x++ {
				x0, x1 := cur.bgCells(x, cols)
				for bx := x0; bx < x1; bx++ {
					putU32(buf[(y*cols+bx)*4:], cur.background(cellBackground(p, bx, y)))
				}
			}
		}
	}
	if err := e.res.dev.WriteBuffer(e.res.background, 0, buf); err != nil {
		return err
	}
	e.stats.BackgroundUploads++
	return nil
}

func putU32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

func (e *Engine) reloadShader() {
	if e.watcher == nil {
		return
	}
	src, ok := e.watcher.poll(time.Now())
	if !ok {
		return
	}
	if err := checkShader(src); err != nil {
		termatlas.Logger().Warn("render: keeping previous shader", "path", e.watcher.path, "err", err)
		return
	}
	if err := e.res.replacePipeline(src); err != nil {
		termatlas.Logger().Warn("render: keeping previous shader", "path", e.watcher.path, "err", err)
		return
	}
	e.stats.ShaderReloads++
	termatlas.Logger().Info("render: shader reloaded", "path", e.watcher.path)
}

// resetAtlas empties the atlas and sets its size. Every cached glyph is
// dropped, the face records stay.
func (e *Engine) resetAtlas(size image.Point) {
	if n := e.packer.Allocated(); n > 0 {
		termatlas.Logger().Debug("render: dropping atlas contents",
			"glyphs", n, "utilization", e.packer.Utilization())
	}
	e.packer.Reset(size.X, size.Y)
	e.surface.Reset(size.X, size.Y)
	e.glyphs.ClearGlyphs()
	e.stats.AtlasResets++
}

// growAtlas enlarges the atlas in place. It reports false when the atlas
// is already as large as it may get.
func (e *Engine) growAtlas() bool {
	cur := e.surface.Size()
	next := atlas.NextSize(cur, e.frame.font.CellSize, e.frame.p.Settings.TargetSize, e.maxAtlasDim)
	if next.X*next.Y <= cur.X*cur.Y {
		return false
	}
	if err := e.packer.Resize(next.X, next.Y); err != nil {
		return false
	}
	e.surface.Grow(next.X, next.Y)
	e.stats.AtlasResizes++
	termatlas.Logger().Debug("render: atlas grown", "from", cur, "to", next,
		"utilization", e.packer.Utilization())
	return true
}

// lookup returns the atlas entry of a glyph, recycling the atlas when it is
// full: first by growing it, then by submitting what was drawn so far and
// starting over with an empty atlas. A glyph that does not fit even then is
// drawn as nothing.
func (e *Engine) lookup(face termatlas.FontFace, r termatlas.LineRendition, glyph uint16) glyphcache.GlyphEntry {
	entry, err := e.glyphs.Lookup(face, r, glyph)
	if err == nil {
		return entry
	}
	if !errors.Is(err, atlas.ErrExhausted) {
		termatlas.Logger().Warn("render: glyph lookup failed", "glyph", glyph, "err", err)
		return e.glyphs.Placeholder(face, r, glyph)
	}
	if e.growAtlas() {
		if entry, err = e.glyphs.Lookup(face, r, glyph); err == nil {
			return entry
		}
	}
	if err := e.flush(); err != nil {
		e.frame.err = err
		return glyphcache.GlyphEntry{}
	}
	e.resetAtlas(e.surface.Size())
	termatlas.Logger().Debug("render: atlas reset mid-frame", "size", e.surface.Size())
	if entry, err = e.glyphs.Lookup(face, r, glyph); err == nil {
		return entry
	}
	termatlas.Logger().Warn("render: glyph does not fit into an empty atlas", "glyph", glyph, "err", err)
	return e.glyphs.Placeholder(face, r, glyph)
}

// finish submits the rest of the frame and runs the post-processor.
func (e *Engine) finish() error {
	if err := e.flush(); err != nil {
		return err
	}
	if e.post == nil {
		return nil
	}
	p := e.frame.p
	if err := e.post.Process(e.res.dev, p.Target, p.Settings.TargetSize); err != nil {
		if errors.Is(err, termatlas.ErrDeviceLost) {
			return err
		}
		termatlas.Logger().Warn("render: post-processing failed", "err", err)
	}
	return nil
}

// flush uploads the dirty part of the atlas and the batch and submits one
// render pass with a draw call per paint group run. The first submit of a
// frame clears the target, later ones draw on top.
func (e *Engine) flush() error {
	n := e.batch.Len()
	if n == 0 && e.frame.submits > 0 {
		return nil
	}
	res := e.res
	dev := res.dev

	resized, err := res.ensureAtlas(e.surface.Size())
	if err != nil {
		return err
	}
	if off, data, ok := e.surface.DirtyBytes(); ok || resized {
		if resized {
			off, data = 0, e.surface.Image().Pix
		}
		if err := dev.WriteBuffer(res.atlas, uint64(off), data); err != nil {
			return err
		}
		e.surface.ClearDirty()
		e.stats.AtlasUploads++
	}

	if err := res.ensureInstances(n); err != nil {
		return err
	}
	var instances []byte
	if n > 0 {
		instances = e.batch.Bytes()
		if err := dev.WriteBuffer(res.instances, 0, instances); err != nil {
			return err
		}
	}

	runs := e.batch.Runs()
	draws := make([]gpucore.DrawRange, len(runs))
	for i, r := range runs {
		draws[i] = gpucore.DrawRange{First: uint32(r.First), Count: uint32(r.Count)}
	}
	p := e.frame.p
	load := gpucore.LoadKeep
	if e.frame.submits == 0 {
		load = gpucore.LoadClear
	}
	bg := termatlas.ColorFromU32Premultiplied(p.Settings.Misc.BackgroundColor)
	err = dev.Submit(&gpucore.RenderPass{
		Label:               "termatlas frame",
		Target:              p.Target,
		TargetWidth:         uint32(p.Settings.TargetSize.X),
		TargetHeight:        uint32(p.Settings.TargetSize.Y),
		Load:                load,
		ClearColor:          [4]float64{float64(bg[0]), float64(bg[1]), float64(bg[2]), float64(bg[3])},
		Pipeline:            res.pipeline,
		Buffers:             res.buffers(),
		VerticesPerInstance: verticesPerInstance,
		Draws:               draws,
	})
	if err != nil {
		return err
	}
	if e.dumper != nil {
		if err := e.dumper.dump(e.stats.Frames, e.frame.submits, instances); err != nil {
			termatlas.Logger().Warn("render: frame dump failed", "err", err)
		}
	}
	e.frame.submits++
	e.stats.Flushes++
	e.stats.DrawCalls += uint64(len(draws))
	e.stats.Instances += uint64(n)
	e.batch.Reset()
	return nil
}
