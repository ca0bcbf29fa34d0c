// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/termatlas/gpucore"
)

// PostProcessor is a custom pass run after the frame has been drawn and
// before it is presented.
type PostProcessor interface {
	// Animated reports whether the output changes over time, which makes
	// the engine require continuous redraws.
	Animated() bool

	// Process draws into target. An error wrapping gpucore.ErrDeviceLost
	// loses the engine; other errors are logged and the frame is presented
	// without the pass.
	Process(dev gpucore.Device, target any, size image.Point) error
}
