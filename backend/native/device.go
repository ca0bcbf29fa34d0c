package native

import (
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/termatlas"
	"github.com/gogpu/termatlas/backend"
	"github.com/gogpu/termatlas/gpucore"
)

func init() {
	backend.Register(backend.NameHeadless, func() (gpucore.Device, error) {
		return NewHeadless()
	})
}

// Options configure a Device.
type Options struct {
	// Format is the color target format. Zero means BGRA8Unorm.
	Format gputypes.TextureFormat

	// MaxBufferSize is reported through Limits. Zero means 256 MiB.
	MaxBufferSize uint64

	// FenceTimeout bounds the wait for a submitted pass. Zero means 5s.
	FenceTimeout time.Duration
}

func (o *Options) setDefaults() {
	if o.Format == gputypes.TextureFormatUndefined {
		o.Format = gputypes.TextureFormatBGRA8Unorm
	}
	if o.MaxBufferSize == 0 {
		o.MaxBufferSize = 256 << 20
	}
	if o.FenceTimeout == 0 {
		o.FenceTimeout = 5 * time.Second
	}
}

type buffer struct {
	buf  hal.Buffer
	size uint64
}

type pipeline struct {
	shader     hal.ShaderModule
	layout     hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	bindings   []gpucore.BindingKind
}

// Device is a gpucore.Device backed by a hal device and queue.
//
// Device is not safe for concurrent use.
type Device struct {
	device hal.Device
	queue  hal.Queue
	opts   Options

	nextID    uint64
	buffers   map[gpucore.BufferID]*buffer
	pipelines map[gpucore.PipelineID]*pipeline
	offscreen offscreen

	// lost is set once a submission failed; every later call fails with it.
	lost error

	// release destroys what the device opened itself.
	release func()
}

var _ gpucore.Device = (*Device)(nil)

// New wraps a hal device and queue. The caller keeps ownership of both.
func New(device hal.Device, queue hal.Queue, opts Options) *Device {
	opts.setDefaults()
	return &Device{
		device:    device,
		queue:     queue,
		opts:      opts,
		buffers:   make(map[gpucore.BufferID]*buffer),
		pipelines: make(map[gpucore.PipelineID]*pipeline),
	}
}

// NewFromProvider wraps the device of a provider that also exposes its hal
// objects through HalDevice and HalQueue. The color format follows the
// provider's surface format.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHAL, hp.HalQueue())
	}
	return New(device, queue, Options{Format: provider.SurfaceFormat()}), nil
}

// NewHeadless opens a device on the wgpu noop adapter. Nothing is drawn,
// but every call is validated and submitted like on real hardware. Close
// releases the adapter.
func NewHeadless() (*Device, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("native: no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open adapter: %w", err)
	}
	d := New(openDev.Device, openDev.Queue, Options{})
	d.release = func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	termatlas.Logger().Info("native: headless device opened")
	return d, nil
}

// Close destroys every resource created through the device.
func (d *Device) Close() {
	for id := range d.pipelines {
		d.DestroyPipeline(id)
	}
	for id := range d.buffers {
		d.DestroyBuffer(id)
	}
	d.offscreen.destroy(d.device)
	if d.release != nil {
		d.release()
		d.release = nil
	}
}

// Limits implements gpucore.Device.
func (d *Device) Limits() gpucore.Limits {
	return gpucore.Limits{MaxBufferSize: d.opts.MaxBufferSize}
}

func (d *Device) id() uint64 {
	d.nextID++
	return d.nextID
}

func bufferUsage(u gpucore.BufferUsage) gputypes.BufferUsage {
	var out gputypes.BufferUsage
	if u&gpucore.BufferUsageCopySrc != 0 {
		out |= gputypes.BufferUsageCopySrc
	}
	if u&gpucore.BufferUsageCopyDst != 0 {
		out |= gputypes.BufferUsageCopyDst
	}
	if u&gpucore.BufferUsageUniform != 0 {
		out |= gputypes.BufferUsageUniform
	}
	if u&gpucore.BufferUsageStorage != 0 {
		out |= gputypes.BufferUsageStorage
	}
	return out
}

// CreateBuffer implements gpucore.Device.
func (d *Device) CreateBuffer(desc *gpucore.BufferDesc) (gpucore.BufferID, error) {
	if d.lost != nil {
		return gpucore.InvalidID, d.lost
	}
	size := (desc.Size + 3) &^ 3
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: bufferUsage(desc.Usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("native: create buffer %q: %w", desc.Label, err)
	}
	id := gpucore.BufferID(d.id())
	d.buffers[id] = &buffer{buf: buf, size: size}
	return id, nil
}

// WriteBuffer implements gpucore.Device.
func (d *Device) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	if d.lost != nil {
		return d.lost
	}
	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("%w: buffer %d", gpucore.ErrUnknownResource, id)
	}
	if offset%4 != 0 || len(data)%4 != 0 {
		return fmt.Errorf("%w: offset %d, %d bytes", ErrUnaligned, offset, len(data))
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("%w: %d+%d > %d", ErrBufferOverflow, offset, len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	d.queue.WriteBuffer(b.buf, offset, data)
	return nil
}

// DestroyBuffer implements gpucore.Device.
func (d *Device) DestroyBuffer(id gpucore.BufferID) {
	b, ok := d.buffers[id]
	if !ok {
		return
	}
	d.device.DestroyBuffer(b.buf)
	delete(d.buffers, id)
}
