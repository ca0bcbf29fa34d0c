// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/termatlas/backend/native"
	"github.com/gogpu/termatlas/gpucore"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g. gogpu.App) owns the device; the engine only draws with it.
// DeviceHandle is an alias for gpucontext.DeviceProvider so any provider of
// the gpucontext ecosystem can be passed unchanged.
type DeviceHandle = gpucontext.DeviceProvider

// DeviceFromHandle wraps the host's device in a gpucore.Device suitable for
// Payload.Device.
func DeviceFromHandle(h DeviceHandle) (gpucore.Device, error) {
	if h == nil {
		return nil, errors.New("render: nil device handle")
	}
	return native.NewFromProvider(h)
}
