// Package software provides a gpucore.Device that executes the quad
// pipeline on the CPU.
//
// It draws into *image.RGBA targets (or an offscreen one) and interprets
// the bindings of the terminal quad program directly instead of compiling
// the shader source. It is registered as backend.NameSoftware and is the
// default device on machines without a GPU.
package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/termatlas/backend"
	"github.com/gogpu/termatlas/gpucore"
	"github.com/gogpu/termatlas/internal/parallel"
)

func init() {
	backend.Register(backend.NameSoftware, func() (gpucore.Device, error) {
		return New(), nil
	})
}

var (
	// ErrUnsupportedTarget is returned for targets other than *image.RGBA.
	ErrUnsupportedTarget = errors.New("software: unsupported render target")

	// ErrUnsupportedPipeline is returned for pipelines whose bindings do not
	// match the quad program.
	ErrUnsupportedPipeline = errors.New("software: unsupported pipeline layout")

	// ErrUnaligned is returned for buffer writes not aligned to 4 bytes.
	ErrUnaligned = errors.New("software: unaligned buffer write")

	// ErrBufferOverflow is returned for writes past the end of a buffer.
	ErrBufferOverflow = errors.New("software: write past end of buffer")
)

// maxBufferSize is the largest buffer the device hands out.
const maxBufferSize = 64 << 20

// quadLayout is the binding layout the device can execute.
var quadLayout = []gpucore.BindingKind{
	gpucore.BindingUniform,
	gpucore.BindingUniform,
	gpucore.BindingUniform,
	gpucore.BindingStorage,
	gpucore.BindingStorage,
	gpucore.BindingStorage,
}

// Device is a CPU implementation of gpucore.Device. It is not safe for
// concurrent use; Submit parallelizes internally.
type Device struct {
	nextID    uint64
	buffers   map[gpucore.BufferID][]byte
	pipelines map[gpucore.PipelineID]gpucore.PipelineDesc
	offscreen *image.RGBA
	pool      *parallel.WorkerPool
}

var _ gpucore.Device = (*Device)(nil)

// New creates a device using GOMAXPROCS workers.
func New() *Device {
	return &Device{
		buffers:   make(map[gpucore.BufferID][]byte),
		pipelines: make(map[gpucore.PipelineID]gpucore.PipelineDesc),
		pool:      parallel.NewWorkerPool(0),
	}
}

// Close stops the worker goroutines. The device keeps working, single
// threaded.
func (d *Device) Close() {
	d.pool.Close()
}

// Offscreen returns the image passes without a target draw into, or nil
// before the first such pass.
func (d *Device) Offscreen() *image.RGBA {
	return d.offscreen
}

func (d *Device) id() uint64 {
	d.nextID++
	return d.nextID
}

// Limits implements gpucore.Device.
func (d *Device) Limits() gpucore.Limits {
	return gpucore.Limits{MaxBufferSize: maxBufferSize}
}

// CreateBuffer implements gpucore.Device.
func (d *Device) CreateBuffer(desc *gpucore.BufferDesc) (gpucore.BufferID, error) {
	if desc.Size > maxBufferSize {
		return gpucore.InvalidID, fmt.Errorf("software: buffer %q of %d bytes exceeds limit", desc.Label, desc.Size)
	}
	id := gpucore.BufferID(d.id())
	d.buffers[id] = make([]byte, (desc.Size+3)&^3)
	return id, nil
}

// WriteBuffer implements gpucore.Device.
func (d *Device) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	buf, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpucore.ErrUnknownResource, id)
	}
	if offset%4 != 0 || len(data)%4 != 0 {
		return fmt.Errorf("%w: %d bytes at %d", ErrUnaligned, len(data), offset)
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("%w: %d bytes at %d into %d", ErrBufferOverflow, len(data), offset, len(buf))
	}
	copy(buf[offset:], data)
	return nil
}

// DestroyBuffer implements gpucore.Device.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	delete(d.buffers, id)
}

// CreatePipeline implements gpucore.Device. The shader source is not
// compiled; only the quad binding layout is accepted.
func (d *Device) CreatePipeline(desc *gpucore.PipelineDesc) (gpucore.PipelineID, error) {
	if len(desc.Bindings) != len(quadLayout) {
		return gpucore.InvalidID, fmt.Errorf("%w: %d bindings", ErrUnsupportedPipeline, len(desc.Bindings))
	}
	for i, k := range desc.Bindings {
		if k != quadLayout[i] {
			return gpucore.InvalidID, fmt.Errorf("%w: binding %d", ErrUnsupportedPipeline, i)
		}
	}
	id := gpucore.PipelineID(d.id())
	d.pipelines[id] = *desc
	return id, nil
}

// DestroyPipeline implements gpucore.Device.
func (d *Device) DestroyPipeline(id gpucore.PipelineID) {
	delete(d.pipelines, id)
}

func (d *Device) target(pass *gpucore.RenderPass) (*image.RGBA, error) {
	switch t := pass.Target.(type) {
	case nil:
		size := image.Pt(int(pass.TargetWidth), int(pass.TargetHeight))
		if d.offscreen == nil || d.offscreen.Rect.Size() != size {
			d.offscreen = image.NewRGBA(image.Rectangle{Max: size})
		}
		return d.offscreen, nil
	case *image.RGBA:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, pass.Target)
	}
}

// Submit implements gpucore.Device.
func (d *Device) Submit(pass *gpucore.RenderPass) error {
	if _, ok := d.pipelines[pass.Pipeline]; !ok {
		return fmt.Errorf("%w: pipeline %d", gpucore.ErrUnknownResource, pass.Pipeline)
	}
	if len(pass.Buffers) != len(quadLayout) {
		return fmt.Errorf("%w: %d buffers bound", ErrUnsupportedPipeline, len(pass.Buffers))
	}
	bufs := make([][]byte, len(pass.Buffers))
	for i, id := range pass.Buffers {
		b, ok := d.buffers[id]
		if !ok {
			return fmt.Errorf("%w: buffer %d", gpucore.ErrUnknownResource, id)
		}
		bufs[i] = b
	}
	dst, err := d.target(pass)
	if err != nil {
		return err
	}
	prog, err := newProgram(bufs)
	if err != nil {
		return err
	}
	if pass.Load == gpucore.LoadClear {
		c := pass.ClearColor
		fill(dst, color.RGBA{
			R: unorm(float32(c[0])),
			G: unorm(float32(c[1])),
			B: unorm(float32(c[2])),
			A: unorm(float32(c[3])),
		})
	}
	quads, err := prog.instances(pass.Draws)
	if err != nil {
		return err
	}
	d.pool.ForBands(dst.Rect.Dy(), func(b parallel.Band) {
		for i := range quads {
			prog.draw(dst, &quads[i], b)
		}
	})
	return nil
}

func fill(img *image.RGBA, c color.RGBA) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
}
