// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render implements the GPU terminal backend.
//
// An Engine turns a termatlas.Payload into instanced quads and submits them
// to a gpucore.Device. Glyphs are rasterized once into an atlas and reused
// until the font changes or the atlas runs out of room; per-cell
// backgrounds live in a storage buffer that is only re-uploaded when its
// generation changes.
//
// # Frame lifecycle
//
// Render moves the engine through Validating (settings and resources are
// brought up to date), Drawing (quads are appended to the batch, flushing
// whenever the atlas has to be recycled) and Presenting (final submit,
// optional post-processing, present). A device error at any point leaves
// the engine in StateLost until ReleaseResources is called.
//
// # Paint order
//
// Quads of a frame are submitted in a fixed order: background, text and
// dotted underlines, solid gridlines, cursor, selection. Each contiguous run
// of one paint group is one draw call.
//
// # Device integration
//
// The engine does not create a device unless asked to. Hosts pass one in
// the payload, obtain one from their gpucontext.DeviceProvider with
// DeviceFromHandle, or configure a fallback with WithDevice.
//
//	eng, err := render.New()
//	if err != nil {
//	    return err
//	}
//	defer eng.ReleaseResources()
//	dev, _ := render.DeviceFromHandle(app.GPUContextProvider())
//	payload.Device = dev
//	if err := eng.Render(payload); errors.Is(err, termatlas.ErrDeviceLost) {
//	    eng.ReleaseResources()
//	}
package render
