// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gogpu/naga"

	"github.com/gogpu/termatlas"
)

//go:embed shaders/quad.wgsl
var quadShaderWGSL string

const (
	vertexEntry   = "vs_main"
	fragmentEntry = "fs_main"
)

// checkShader compiles src to catch syntax and type errors before the
// device sees it. Compiler limitations are not held against the source.
func checkShader(src string) error {
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("%w: empty source", ErrShaderRejected)
	}
	if _, err := naga.Compile(src); err != nil {
		if compilerLimitation(err) {
			termatlas.Logger().Debug("render: shader check inconclusive", "err", err)
			return nil
		}
		return fmt.Errorf("%w: %w", ErrShaderRejected, err)
	}
	return nil
}

func compilerLimitation(err error) bool {
	s := err.Error()
	return strings.Contains(s, "not yet implemented") ||
		strings.Contains(s, "not supported") ||
		strings.Contains(s, "runtime-sized arrays")
}

// shaderWatcher polls a shader file for changes.
type shaderWatcher struct {
	path     string
	interval time.Duration

	lastCheck time.Time
	modTime   time.Time
}

// poll returns the new source when the file changed since the last
// successful read. Read errors are logged and retried on the next poll.
func (w *shaderWatcher) poll(now time.Time) (string, bool) {
	if now.Sub(w.lastCheck) < w.interval {
		return "", false
	}
	w.lastCheck = now
	fi, err := os.Stat(w.path)
	if err != nil {
		termatlas.Logger().Warn("render: shader stat failed", "path", w.path, "err", err)
		return "", false
	}
	if fi.ModTime().Equal(w.modTime) {
		return "", false
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		termatlas.Logger().Warn("render: shader read failed", "path", w.path, "err", err)
		return "", false
	}
	w.modTime = fi.ModTime()
	return string(data), true
}
