package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/termatlas/gpucore"
)

func layoutEntries(bindings []gpucore.BindingKind) ([]gputypes.BindGroupLayoutEntry, error) {
	entries := make([]gputypes.BindGroupLayoutEntry, len(bindings))
	for i, kind := range bindings {
		var typ gputypes.BufferBindingType
		switch kind {
		case gpucore.BindingUniform:
			typ = gputypes.BufferBindingTypeUniform
		case gpucore.BindingStorage:
			typ = gputypes.BufferBindingTypeReadOnlyStorage
		default:
			return nil, fmt.Errorf("native: binding %d has unknown kind %d", i, kind)
		}
		entries[i] = gputypes.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: typ},
		}
	}
	return entries, nil
}

// CreatePipeline implements gpucore.Device.
func (d *Device) CreatePipeline(desc *gpucore.PipelineDesc) (gpucore.PipelineID, error) {
	if d.lost != nil {
		return gpucore.InvalidID, d.lost
	}
	entries, err := layoutEntries(desc.Bindings)
	if err != nil {
		return gpucore.InvalidID, err
	}

	p := &pipeline{bindings: append([]gpucore.BindingKind(nil), desc.Bindings...)}
	fail := func(what string, err error) (gpucore.PipelineID, error) {
		d.destroyPipeline(p)
		return gpucore.InvalidID, fmt.Errorf("native: %s for %q: %w", what, desc.Label, err)
	}

	p.shader, err = d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label + "_shader",
		Source: hal.ShaderSource{WGSL: desc.Source},
	})
	if err != nil {
		return fail("create shader module", err)
	}

	p.layout, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label + "_bind_layout",
		Entries: entries,
	})
	if err != nil {
		return fail("create bind group layout", err)
	}

	p.pipeLayout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.layout},
	})
	if err != nil {
		return fail("create pipeline layout", err)
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	p.pipeline, err = d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: desc.VertexEntry,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: desc.FragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    d.opts.Format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fail("create render pipeline", err)
	}

	id := gpucore.PipelineID(d.id())
	d.pipelines[id] = p
	return id, nil
}

// DestroyPipeline implements gpucore.Device.
func (d *Device) DestroyPipeline(id gpucore.PipelineID) {
	p, ok := d.pipelines[id]
	if !ok {
		return
	}
	d.destroyPipeline(p)
	delete(d.pipelines, id)
}

func (d *Device) destroyPipeline(p *pipeline) {
	if p.pipeline != nil {
		d.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		d.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.layout != nil {
		d.device.DestroyBindGroupLayout(p.layout)
		p.layout = nil
	}
	if p.shader != nil {
		d.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
