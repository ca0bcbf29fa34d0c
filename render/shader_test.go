// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/naga"

	"github.com/gogpu/termatlas"
)

// TestQuadShaderCompilation tests that the WGSL shader compiles to SPIR-V.
func TestQuadShaderCompilation(t *testing.T) {
	if quadShaderWGSL == "" {
		t.Fatal("quad shader source is empty")
	}
	for _, entry := range []string{vertexEntry, fragmentEntry} {
		if !strings.Contains(quadShaderWGSL, "fn "+entry+"(") {
			t.Errorf("shader has no entry point %s", entry)
		}
	}

	spirvBytes, err := naga.Compile(quadShaderWGSL)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "runtime-sized arrays") {
			t.Skip("Skipping: naga doesn't yet support runtime-sized arrays (needed for storage buffers)")
		}
		if strings.Contains(errStr, "not yet implemented") || strings.Contains(errStr, "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("failed to compile quad shader: %v", err)
	}
	if len(spirvBytes) < 4 {
		t.Fatal("SPIR-V too short")
	}
	magic := uint32(spirvBytes[0]) |
		uint32(spirvBytes[1])<<8 |
		uint32(spirvBytes[2])<<16 |
		uint32(spirvBytes[3])<<24
	if magic != 0x07230203 {
		t.Errorf("invalid SPIR-V magic: 0x%08X, want 0x07230203", magic)
	}
}

func TestCheckShader_Rejects(t *testing.T) {
	for _, src := range []string{"", "   \n", "this is not wgsl {"} {
		if err := checkShader(src); !errors.Is(err, ErrShaderRejected) {
			t.Errorf("checkShader(%q) = %v, want ErrShaderRejected", src, err)
		}
	}
}

func TestEngine_HotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.wgsl")
	if err := os.WriteFile(path, []byte("this is not wgsl {"), 0o644); err != nil {
		t.Fatal(err)
	}
	dev := newFakeDevice()
	e := testEngine(t, newCountingRasterizer(8, 12), func(c *Config) {
		c.Debug = termatlas.DebugHotReload
		c.ShaderPath = path
		c.HotReloadInterval = 0
	})
	p := testPayload(dev, textRow(&testFace{id: 1}, 1))

	if err := e.Render(p); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := e.Stats().ShaderReloads; got != 0 {
		t.Errorf("ShaderReloads = %d after a broken shader, want 0", got)
	}
	if len(dev.pipelines) != 1 {
		t.Errorf("pipelines = %d, want 1", len(dev.pipelines))
	}

	if err := checkShader(quadShaderWGSL); err != nil {
		t.Skipf("built-in shader does not pass the compiler: %v", err)
	}
	if err := os.WriteFile(path, []byte(quadShaderWGSL), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	if err := e.Render(p); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := e.Stats().ShaderReloads; got != 1 {
		t.Errorf("ShaderReloads = %d, want 1", got)
	}
	if len(dev.pipelines) != 1 {
		t.Errorf("pipelines = %d after reload, want 1", len(dev.pipelines))
	}
}
