// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// frameDumper writes the instance stream of every submit to disk,
// zstd-compressed, as frame-<frame>-<submit>.zst. The files decode with
// quad.DecodeInstance.
type frameDumper struct {
	dir string
	enc *zstd.Encoder
}

func newFrameDumper(dir string) (*frameDumper, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("render: dump dir: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &frameDumper{dir: dir, enc: enc}, nil
}

func (d *frameDumper) path(frame uint64, submit int) string {
	return filepath.Join(d.dir, fmt.Sprintf("frame-%06d-%02d.zst", frame, submit))
}

func (d *frameDumper) dump(frame uint64, submit int, instances []byte) error {
	return os.WriteFile(d.path(frame, submit), d.enc.EncodeAll(instances, nil), 0o644)
}

// ReadDump decompresses a dump file written by the frame dump debug mode.
func ReadDump(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
