package native

import (
	"errors"
	"testing"

	"github.com/gogpu/termatlas/backend"
	"github.com/gogpu/termatlas/gpucore"
)

const testShader = `
@vertex
fn vs_main(@builtin(vertex_index) vi: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

func newTestDevice(t *testing.T) *Device {
	t.Helper()
	d, err := NewHeadless()
	if err != nil {
		t.Fatalf("NewHeadless: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestDevice_Buffers(t *testing.T) {
	d := newTestDevice(t)

	id, err := d.CreateBuffer(&gpucore.BufferDesc{
		Label: "test",
		Size:  62,
		Usage: gpucore.BufferUsageStorage | gpucore.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	if id == gpucore.InvalidID {
		t.Fatal("CreateBuffer returned InvalidID")
	}
	if got := d.buffers[id].size; got != 64 {
		t.Errorf("size rounded to %d, want 64", got)
	}

	if err := d.WriteBuffer(id, 0, make([]byte, 64)); err != nil {
		t.Errorf("WriteBuffer: %v", err)
	}
	if err := d.WriteBuffer(id, 2, make([]byte, 4)); !errors.Is(err, ErrUnaligned) {
		t.Errorf("unaligned write error = %v", err)
	}
	if err := d.WriteBuffer(id, 32, make([]byte, 64)); !errors.Is(err, ErrBufferOverflow) {
		t.Errorf("overflowing write error = %v", err)
	}

	d.DestroyBuffer(id)
	d.DestroyBuffer(id)
	if err := d.WriteBuffer(id, 0, make([]byte, 4)); !errors.Is(err, gpucore.ErrUnknownResource) {
		t.Errorf("write after destroy error = %v", err)
	}
}

func TestDevice_Submit(t *testing.T) {
	d := newTestDevice(t)

	pid, err := d.CreatePipeline(&gpucore.PipelineDesc{
		Label:         "test_pipeline",
		Source:        testShader,
		VertexEntry:   "vs_main",
		FragmentEntry: "fs_main",
		Bindings:      []gpucore.BindingKind{gpucore.BindingUniform, gpucore.BindingStorage},
	})
	if err != nil {
		t.Fatalf("CreatePipeline: %v", err)
	}
	uni, err := d.CreateBuffer(&gpucore.BufferDesc{Label: "u", Size: 16, Usage: gpucore.BufferUsageUniform | gpucore.BufferUsageCopyDst})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	sto, err := d.CreateBuffer(&gpucore.BufferDesc{Label: "s", Size: 80, Usage: gpucore.BufferUsageStorage | gpucore.BufferUsageCopyDst})
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}

	pass := &gpucore.RenderPass{
		Label:               "test_pass",
		TargetWidth:         64,
		TargetHeight:        32,
		Pipeline:            pid,
		Buffers:             []gpucore.BufferID{uni, sto},
		VerticesPerInstance: 6,
		Draws:               []gpucore.DrawRange{{First: 0, Count: 3}, {First: 3, Count: 0}},
	}
	if err := d.Submit(pass); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	pass.Load = gpucore.LoadKeep
	if err := d.Submit(pass); err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if d.offscreen.width != 64 || d.offscreen.height != 32 {
		t.Errorf("offscreen target %dx%d", d.offscreen.width, d.offscreen.height)
	}

	bad := *pass
	bad.Buffers = bad.Buffers[:1]
	if err := d.Submit(&bad); !errors.Is(err, ErrBindingMismatch) {
		t.Errorf("binding mismatch error = %v", err)
	}
	bad = *pass
	bad.Target = "window"
	if err := d.Submit(&bad); !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("bad target error = %v", err)
	}
	bad = *pass
	bad.Pipeline = 999
	if err := d.Submit(&bad); !errors.Is(err, gpucore.ErrUnknownResource) {
		t.Errorf("unknown pipeline error = %v", err)
	}
	if d.Lost() != nil {
		t.Errorf("validation failures must not lose the device: %v", d.Lost())
	}

	d.DestroyPipeline(pid)
	if len(d.pipelines) != 0 {
		t.Error("pipeline not destroyed")
	}
}

func TestDevice_Lost(t *testing.T) {
	d := newTestDevice(t)
	err := d.markLost(errors.New("removed"))
	if !errors.Is(err, gpucore.ErrDeviceLost) {
		t.Fatalf("markLost error = %v", err)
	}
	if _, err := d.CreateBuffer(&gpucore.BufferDesc{Size: 4}); !errors.Is(err, gpucore.ErrDeviceLost) {
		t.Errorf("CreateBuffer on lost device error = %v", err)
	}
	if err := d.Submit(&gpucore.RenderPass{}); !errors.Is(err, gpucore.ErrDeviceLost) {
		t.Errorf("Submit on lost device error = %v", err)
	}
}

func TestDevice_UnknownBindingKind(t *testing.T) {
	d := newTestDevice(t)
	_, err := d.CreatePipeline(&gpucore.PipelineDesc{Source: testShader, Bindings: []gpucore.BindingKind{0}})
	if err == nil {
		t.Error("expected an error for an unknown binding kind")
	}
}

func TestHeadlessRegistered(t *testing.T) {
	dev, err := backend.Open(backend.NameHeadless)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	d, ok := dev.(*Device)
	if !ok {
		t.Fatalf("Open returned %T", dev)
	}
	d.Close()
}
