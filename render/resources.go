// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/termatlas/gpucore"
	"github.com/gogpu/termatlas/quad"
)

// verticesPerInstance is two triangles per quad.
const verticesPerInstance = 6

// Binding slots, matching shaders/quad.wgsl.
var quadBindings = []gpucore.BindingKind{
	gpucore.BindingUniform, // 0 vertex constants
	gpucore.BindingUniform, // 1 pixel constants
	gpucore.BindingUniform, // 2 atlas info
	gpucore.BindingStorage, // 3 instances
	gpucore.BindingStorage, // 4 atlas texels
	gpucore.BindingStorage, // 5 background cells
}

// resources are the device objects of one engine. All IDs belong to dev.
type resources struct {
	dev gpucore.Device

	pipeline gpucore.PipelineID

	vsConstants gpucore.BufferID
	psConstants gpucore.BufferID
	atlasInfo   gpucore.BufferID
	instances   gpucore.BufferID
	atlas       gpucore.BufferID
	background  gpucore.BufferID

	instanceCap int
	atlasSize   image.Point
	bgCells     int
}

func newResources(dev gpucore.Device, shader string) (*resources, error) {
	r := &resources{dev: dev}
	pipeline, err := dev.CreatePipeline(&gpucore.PipelineDesc{
		Label:         "termatlas quads",
		Source:        shader,
		VertexEntry:   vertexEntry,
		FragmentEntry: fragmentEntry,
		Bindings:      quadBindings,
	})
	if err != nil {
		return nil, fmt.Errorf("render: pipeline: %w", err)
	}
	r.pipeline = pipeline

	uniforms := []struct {
		id    *gpucore.BufferID
		label string
		size  uint64
	}{
		{&r.vsConstants, "vs constants", quad.VSConstantsSize},
		{&r.psConstants, "ps constants", quad.PSConstantsSize},
		{&r.atlasInfo, "atlas info", quad.AtlasConstantsSize},
	}
	for _, u := range uniforms {
		id, err := dev.CreateBuffer(&gpucore.BufferDesc{
			Label: u.label,
			Size:  u.size,
			Usage: gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst,
		})
		if err != nil {
			r.release()
			return nil, fmt.Errorf("render: %s buffer: %w", u.label, err)
		}
		*u.id = id
	}
	return r, nil
}

func (r *resources) storage(label string, size int) (gpucore.BufferID, error) {
	id, err := r.dev.CreateBuffer(&gpucore.BufferDesc{
		Label: label,
		Size:  uint64(max(size, 4)),
		Usage: gpucore.BufferUsageStorage | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("render: %s buffer: %w", label, err)
	}
	return id, nil
}

// ensureInstances makes room for n instances, doubling the capacity.
func (r *resources) ensureInstances(n int) error {
	if n <= r.instanceCap && r.instances != gpucore.InvalidID {
		return nil
	}
	c := max(r.instanceCap, 1)
	for c < n {
		c *= 2
	}
	id, err := r.storage("instances", c*quad.InstanceSize)
	if err != nil {
		return err
	}
	r.dev.DestroyBuffer(r.instances)
	r.instances, r.instanceCap = id, c
	return nil
}

// ensureAtlas recreates the atlas buffer when the surface size changed. It
// reports whether it did, in which case the whole surface must be uploaded.
func (r *resources) ensureAtlas(size image.Point) (bool, error) {
	if size == r.atlasSize && r.atlas != gpucore.InvalidID {
		return false, nil
	}
	id, err := r.storage("atlas", size.X*size.Y*4)
	if err != nil {
		return false, err
	}
	r.dev.DestroyBuffer(r.atlas)
	r.atlas, r.atlasSize = id, size
	info := quad.AtlasConstants{Width: uint32(size.X), Height: uint32(size.Y)}
	if err := r.dev.WriteBuffer(r.atlasInfo, 0, info.Bytes()); err != nil {
		return false, err
	}
	return true, nil
}

// ensureBackground sizes the background buffer for cells cells.
func (r *resources) ensureBackground(cells int) error {
	if cells == r.bgCells && r.background != gpucore.InvalidID {
		return nil
	}
	id, err := r.storage("background", cells*4)
	if err != nil {
		return err
	}
	r.dev.DestroyBuffer(r.background)
	r.background, r.bgCells = id, cells
	return nil
}

// replacePipeline swaps in a pipeline built from src. On error the old
// pipeline stays.
func (r *resources) replacePipeline(src string) error {
	id, err := r.dev.CreatePipeline(&gpucore.PipelineDesc{
		Label:         "termatlas quads",
		Source:        src,
		VertexEntry:   vertexEntry,
		FragmentEntry: fragmentEntry,
		Bindings:      quadBindings,
	})
	if err != nil {
		return err
	}
	r.dev.DestroyPipeline(r.pipeline)
	r.pipeline = id
	return nil
}

func (r *resources) buffers() []gpucore.BufferID {
	return []gpucore.BufferID{r.vsConstants, r.psConstants, r.atlasInfo, r.instances, r.atlas, r.background}
}

// release destroys every object. It is safe to call on a partially
// created set.
func (r *resources) release() {
	for _, id := range r.buffers() {
		if id != gpucore.InvalidID {
			r.dev.DestroyBuffer(id)
		}
	}
	if r.pipeline != gpucore.InvalidID {
		r.dev.DestroyPipeline(r.pipeline)
	}
	*r = resources{dev: r.dev}
}
