package gpucore

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// PipelineID is an opaque handle to a render pipeline together with its
// shader module and binding layout.
type PipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 0

	// BufferUsageCopyDst indicates the buffer can be written with WriteBuffer.
	BufferUsageCopyDst BufferUsage = 1 << 1

	// BufferUsageUniform indicates the buffer can be bound as a uniform block.
	BufferUsageUniform BufferUsage = 1 << 2

	// BufferUsageStorage indicates the buffer can be bound as a read-only
	// storage buffer.
	BufferUsageStorage BufferUsage = 1 << 3
)

// BufferDesc describes a buffer.
type BufferDesc struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// BindingKind is the type of one binding slot of a pipeline.
type BindingKind uint8

const (
	// BindingUniform is a uniform buffer visible to both shader stages.
	BindingUniform BindingKind = iota + 1

	// BindingStorage is a read-only storage buffer visible to both stages.
	BindingStorage
)

// PipelineDesc describes a render pipeline drawing instanced quads without
// vertex buffers. Bindings lists the buffer slots in binding order.
type PipelineDesc struct {
	Label string

	// Source is WGSL shader source containing both entry points.
	Source        string
	VertexEntry   string
	FragmentEntry string

	Bindings []BindingKind
}

// LoadOp selects what happens to the target at the start of a pass.
type LoadOp uint8

const (
	// LoadClear clears the target to RenderPass.ClearColor.
	LoadClear LoadOp = iota
	// LoadKeep keeps the previous content of the target.
	LoadKeep
)

// DrawRange draws instances [First, First+Count).
type DrawRange struct {
	First uint32
	Count uint32
}

// RenderPass is one submission: a set of instanced draws sharing a
// pipeline and its bound buffers.
type RenderPass struct {
	Label string

	// Target is the implementation-specific color target. When nil the
	// device draws into an offscreen target of TargetWidth x TargetHeight.
	Target       any
	TargetWidth  uint32
	TargetHeight uint32

	Load       LoadOp
	ClearColor [4]float64

	Pipeline PipelineID

	// Buffers are bound in the order of the pipeline's Bindings.
	Buffers []BufferID

	// VerticesPerInstance is the vertex count of a single instance.
	VerticesPerInstance uint32

	Draws []DrawRange
}

// Limits reports device limits relevant to the engine.
type Limits struct {
	// MaxBufferSize is the largest buffer the device can create.
	MaxBufferSize uint64
}
