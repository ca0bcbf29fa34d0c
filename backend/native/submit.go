package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/gpucore"
)

func (d *Device) target(pass *gpucore.RenderPass) (hal.TextureView, error) {
	switch t := pass.Target.(type) {
	case nil:
		if pass.TargetWidth == 0 || pass.TargetHeight == 0 {
			return nil, fmt.Errorf("%w: offscreen target of %dx%d", ErrUnsupportedTarget, pass.TargetWidth, pass.TargetHeight)
		}
		return d.offscreen.ensure(d.device, d.opts.Format, pass.TargetWidth, pass.TargetHeight)
	case hal.TextureView:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, pass.Target)
	}
}

// Submit implements gpucore.Device. Failures after the pass was handed to
// the queue mark the device lost.
func (d *Device) Submit(pass *gpucore.RenderPass) error {
	if d.lost != nil {
		return d.lost
	}
	p, ok := d.pipelines[pass.Pipeline]
	if !ok {
		return fmt.Errorf("%w: pipeline %d", gpucore.ErrUnknownResource, pass.Pipeline)
	}
	if len(pass.Buffers) != len(p.bindings) {
		return fmt.Errorf("%w: %d buffers, %d bindings", ErrBindingMismatch, len(pass.Buffers), len(p.bindings))
	}
	view, err := d.target(pass)
	if err != nil {
		return err
	}

	entries := make([]gputypes.BindGroupEntry, len(pass.Buffers))
	for i, id := range pass.Buffers {
		b, ok := d.buffers[id]
		if !ok {
			return fmt.Errorf("%w: buffer %d in binding %d", gpucore.ErrUnknownResource, id, i)
		}
		entries[i] = gputypes.BindGroupEntry{
			Binding: uint32(i),
			Resource: gputypes.BufferBinding{
				Buffer: b.buf.NativeHandle(), Offset: 0, Size: b.size,
			},
		}
	}
	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   pass.Label + "_bind",
		Layout:  p.layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("native: create bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: pass.Label + "_encoder",
	})
	if err != nil {
		return d.markLost(fmt.Errorf("create command encoder: %w", err))
	}
	if err := encoder.BeginEncoding(pass.Label); err != nil {
		return d.markLost(fmt.Errorf("begin encoding: %w", err))
	}

	loadOp := gputypes.LoadOpClear
	if pass.Load == gpucore.LoadKeep {
		loadOp = gputypes.LoadOpLoad
	}
	c := pass.ClearColor
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: pass.Label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     loadOp,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: c[0], G: c[1], B: c[2], A: c[3]},
		}},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	for _, dr := range pass.Draws {
		if dr.Count == 0 {
			continue
		}
		rp.Draw(pass.VerticesPerInstance, dr.Count, 0, dr.First)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return d.markLost(fmt.Errorf("end encoding: %w", err))
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return d.markLost(fmt.Errorf("create fence: %w", err))
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return d.markLost(fmt.Errorf("submit: %w", err))
	}
	fenceOK, err := d.device.Wait(fence, 1, d.opts.FenceTimeout)
	if err != nil || !fenceOK {
		return d.markLost(fmt.Errorf("wait for GPU: ok=%v err=%v", fenceOK, err))
	}
	return nil
}

func (d *Device) markLost(err error) error {
	d.lost = fmt.Errorf("%w: %w", gpucore.ErrDeviceLost, err)
	termatlas.Logger().Warn("native: device lost", "err", err)
	return d.lost
}

// Lost returns the error that marked the device lost, or nil.
func (d *Device) Lost() error { return d.lost }
