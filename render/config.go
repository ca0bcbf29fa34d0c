// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"time"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/atlas"
	"github.com/gogpu/termatlas/gpucore"
	"github.com/gogpu/termatlas/raster"
)

// Config holds the tunables of an Engine.
type Config struct {
	// InitialAtlasSize is the atlas size after a font change. The zero
	// value derives it from the cell and target size.
	InitialAtlasSize image.Point

	// MaxAtlasSize bounds each atlas dimension. The device's buffer limit
	// may lower it further.
	MaxAtlasSize int

	// GlyphPadding is the empty border kept around each packed glyph.
	GlyphPadding int

	// InitialInstanceCapacity is the instance count the batch and the
	// instance buffer start with.
	InitialInstanceCapacity int

	// RasterCacheBytes bounds the bitmap cache in front of the outline
	// rasterizer. Zero disables it.
	RasterCacheBytes int64

	Debug termatlas.DebugMode

	// ShaderPath is watched for changes when Debug has DebugHotReload.
	ShaderPath        string
	HotReloadInterval time.Duration

	// DumpDir receives compressed instance dumps when Debug has
	// DebugFrameDump.
	DumpDir string
}

// DefaultConfig returns the configuration New starts from.
func DefaultConfig() Config {
	return Config{
		MaxAtlasSize:            4096,
		GlyphPadding:            1,
		InitialInstanceCapacity: 1024,
		RasterCacheBytes:        4 << 20,
		HotReloadInterval:       500 * time.Millisecond,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.InitialAtlasSize.X < 0 || c.InitialAtlasSize.Y < 0:
		return &ConfigError{Field: "InitialAtlasSize", Reason: "must not be negative"}
	case (c.InitialAtlasSize.X == 0) != (c.InitialAtlasSize.Y == 0):
		return &ConfigError{Field: "InitialAtlasSize", Reason: "both dimensions must be set"}
	case c.MaxAtlasSize < atlas.MinSize:
		return &ConfigError{Field: "MaxAtlasSize", Reason: "smaller than the minimum atlas size"}
	case c.MaxAtlasSize > 0xffff:
		return &ConfigError{Field: "MaxAtlasSize", Reason: "texture coordinates are 16 bit"}
	case c.InitialAtlasSize.X > c.MaxAtlasSize || c.InitialAtlasSize.Y > c.MaxAtlasSize:
		return &ConfigError{Field: "InitialAtlasSize", Reason: "exceeds MaxAtlasSize"}
	case c.GlyphPadding < 0:
		return &ConfigError{Field: "GlyphPadding", Reason: "must not be negative"}
	case c.InitialInstanceCapacity < 0:
		return &ConfigError{Field: "InitialInstanceCapacity", Reason: "must not be negative"}
	case c.RasterCacheBytes < 0:
		return &ConfigError{Field: "RasterCacheBytes", Reason: "must not be negative"}
	case c.Debug.Has(termatlas.DebugHotReload) && c.ShaderPath == "":
		return &ConfigError{Field: "ShaderPath", Reason: "required for hot reload"}
	case c.Debug.Has(termatlas.DebugFrameDump) && c.DumpDir == "":
		return &ConfigError{Field: "DumpDir", Reason: "required for frame dumps"}
	}
	return nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the configuration.
func WithConfig(c Config) Option {
	return func(e *Engine) { e.cfg = c }
}

// WithDebug sets the debug mode.
func WithDebug(m termatlas.DebugMode) Option {
	return func(e *Engine) { e.cfg.Debug = m }
}

// WithShaderPath enables hot reload of the shader at path.
func WithShaderPath(path string) Option {
	return func(e *Engine) {
		e.cfg.ShaderPath = path
		e.cfg.Debug |= termatlas.DebugHotReload
	}
}

// WithDumpDir enables frame dumps into dir.
func WithDumpDir(dir string) Option {
	return func(e *Engine) {
		e.cfg.DumpDir = dir
		e.cfg.Debug |= termatlas.DebugFrameDump
	}
}

// WithRasterizer replaces the outline rasterizer.
func WithRasterizer(r raster.Rasterizer) Option {
	return func(e *Engine) { e.rasterizer = r }
}

// WithPostProcessor runs p after every frame.
func WithPostProcessor(p PostProcessor) Option {
	return func(e *Engine) { e.post = p }
}

// WithDevice sets the device used for payloads that carry none.
func WithDevice(d gpucore.Device) Option {
	return func(e *Engine) { e.fallback = d }
}
