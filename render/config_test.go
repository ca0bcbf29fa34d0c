// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/gpucore"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"default", func(*Config) {}, ""},
		{"negative atlas", func(c *Config) { c.InitialAtlasSize = image.Pt(-1, 128) }, "InitialAtlasSize"},
		{"half atlas", func(c *Config) { c.InitialAtlasSize = image.Pt(256, 0) }, "InitialAtlasSize"},
		{"atlas above max", func(c *Config) { c.InitialAtlasSize = image.Pt(8192, 8192) }, "InitialAtlasSize"},
		{"tiny max", func(c *Config) { c.MaxAtlasSize = 64 }, "MaxAtlasSize"},
		{"huge max", func(c *Config) { c.MaxAtlasSize = 1 << 17 }, "MaxAtlasSize"},
		{"padding", func(c *Config) { c.GlyphPadding = -1 }, "GlyphPadding"},
		{"instances", func(c *Config) { c.InitialInstanceCapacity = -1 }, "InitialInstanceCapacity"},
		{"raster cache", func(c *Config) { c.RasterCacheBytes = -1 }, "RasterCacheBytes"},
		{"hot reload", func(c *Config) { c.Debug = termatlas.DebugHotReload }, "ShaderPath"},
		{"frame dump", func(c *Config) { c.Debug = termatlas.DebugFrameDump }, "DumpDir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAtlasSize = 0
	if _, err := New(WithConfig(cfg)); err == nil {
		t.Error("New with invalid config succeeded")
	}
}

func TestMaxAtlasDim(t *testing.T) {
	tests := []struct {
		configured int
		limit      uint64
		want       int
	}{
		{4096, 0, 4096},
		{4096, 256 << 20, 4096},
		{4096, 4 << 20, 1024},
		{4096, 1024, 128},
	}
	for _, tt := range tests {
		if got := maxAtlasDim(tt.configured, gpucore.Limits{MaxBufferSize: tt.limit}); got != tt.want {
			t.Errorf("maxAtlasDim(%d, %d) = %d, want %d", tt.configured, tt.limit, got, tt.want)
		}
	}
}
