// Package termatlas is a GPU glyph atlas and quad batching engine for
// terminal emulators.
//
// # Overview
//
// The engine turns per-cell terminal state into two GPU resources per frame:
// a dynamically packed texture atlas holding every rasterized glyph, and a
// stream of fixed-size quad instances that reference the atlas. The host
// feeds a [Payload] to a [Backend] once per frame; the backend detects what
// changed through generation counters, rasterizes missing glyphs, appends
// instances and issues the draw calls.
//
// # Packages
//
//   - atlas: skyline rectangle packer and the CPU mirror of the atlas texture
//   - glyphcache: (font face, line rendition) -> glyph index -> atlas entry
//   - quad: the 20-byte instance record, batch buffer and uniform blocks
//   - raster: glyph bitmap production (outlines, box glyphs, soft fonts)
//   - text: font faces, cell metrics and row shaping
//   - gpucore: the device abstraction the engine draws through
//   - backend: registry of named devices
//   - backend/native: gpucore.Device on top of gogpu/wgpu HAL
//   - backend/software: gpucore.Device that shades on the CPU
//   - render: the per-frame orchestrator implementing [Backend]
//
// # Quick Start
//
//	face := text.DefaultFace()
//	font, _ := text.NewFontSettings(face, 16, termatlas.AntialiasingGrayscale, 1)
//	shaper, _ := text.NewShaper(font, face)
//	row, _ := shaper.ShapeLine([]rune("$ ls"), nil)
//	dev, _ := native.NewFromProvider(provider)
//
//	engine, _ := render.New()
//	defer engine.ReleaseResources()
//
//	err := engine.Render(&termatlas.Payload{
//	    Device:   dev,
//	    Settings: settings,
//	    Rows:     []*termatlas.ShapedRow{row},
//	})
//
// # Threading
//
// A backend is single-threaded and frame-synchronous. Render must not be
// called concurrently; the atlas, the glyph cache and the batch buffer are
// only touched from inside Render.
package termatlas
