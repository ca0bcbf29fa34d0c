package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// offscreen is the device-owned color target used by passes without one.
type offscreen struct {
	tex           hal.Texture
	view          hal.TextureView
	width, height uint32
}

func (o *offscreen) ensure(device hal.Device, format gputypes.TextureFormat, w, h uint32) (hal.TextureView, error) {
	if o.view != nil && o.width == w && o.height == h {
		return o.view, nil
	}
	o.destroy(device)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "termatlas_offscreen",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create offscreen texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "termatlas_offscreen_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("native: create offscreen view: %w", err)
	}
	o.tex, o.view, o.width, o.height = tex, view, w, h
	return view, nil
}

func (o *offscreen) destroy(device hal.Device) {
	if o.view != nil {
		device.DestroyTextureView(o.view)
		o.view = nil
	}
	if o.tex != nil {
		device.DestroyTexture(o.tex)
		o.tex = nil
	}
	o.width, o.height = 0, 0
}
