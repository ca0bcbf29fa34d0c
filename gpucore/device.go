package gpucore

import "errors"

var (
	// ErrDeviceLost is returned when the device or one of its resources is
	// no longer usable.
	ErrDeviceLost = errors.New("gpucore: device lost")

	// ErrUnknownResource is returned when an ID does not name a live resource.
	ErrUnknownResource = errors.New("gpucore: unknown resource")
)

// Device abstracts over GPU backend implementations.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - IDs become invalid after destruction and are never reused
//
// A Device is used from a single goroutine at a time.
type Device interface {
	// CreateBuffer allocates a buffer. Contents are undefined until written.
	CreateBuffer(desc *BufferDesc) (BufferID, error)

	// WriteBuffer copies data into a buffer at the given byte offset.
	// Offset and len(data) must be multiples of 4.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// DestroyBuffer releases a buffer. Unknown IDs are ignored.
	DestroyBuffer(id BufferID)

	// CreatePipeline compiles the shader and builds the pipeline.
	CreatePipeline(desc *PipelineDesc) (PipelineID, error)

	// DestroyPipeline releases a pipeline. Unknown IDs are ignored.
	DestroyPipeline(id PipelineID)

	// Submit records and submits one render pass.
	Submit(pass *RenderPass) error

	// Limits returns the device limits.
	Limits() Limits
}
