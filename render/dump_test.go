// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"path/filepath"
	"testing"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/quad"
)

func TestEngine_FrameDump(t *testing.T) {
	dir := t.TempDir()
	e := testEngine(t, newCountingRasterizer(8, 12), func(c *Config) {
		c.Debug = termatlas.DebugFrameDump
		c.DumpDir = dir
	})
	if err := e.Render(testPayload(newFakeDevice(), textRow(&testFace{id: 1}, 1))); err != nil {
		t.Fatalf("Render: %v", err)
	}

	data, err := ReadDump(filepath.Join(dir, "frame-000000-00.zst"))
	if err != nil {
		t.Fatalf("ReadDump: %v", err)
	}
	if len(data) != 2*quad.InstanceSize {
		t.Fatalf("dump holds %d bytes, want 2 instances", len(data))
	}
	bg := quad.DecodeInstance(data)
	if bg.Shading != quad.ShadingBackground || bg.Size != (quad.U16x2{X: 800, Y: 480}) {
		t.Errorf("first dumped instance = %+v", bg)
	}
	if g := quad.DecodeInstance(data[quad.InstanceSize:]); g.Shading != quad.ShadingTextGrayscale {
		t.Errorf("second dumped instance = %+v", g)
	}
}
