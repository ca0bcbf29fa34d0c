package native

import "errors"

var (
	// ErrNoHAL is returned when a device provider does not expose hal objects.
	ErrNoHAL = errors.New("native: provider does not expose HAL device and queue")

	// ErrUnsupportedTarget is returned for pass targets that are not hal
	// texture views.
	ErrUnsupportedTarget = errors.New("native: unsupported render target")

	// ErrBindingMismatch is returned when a pass binds a different number
	// of buffers than its pipeline declares.
	ErrBindingMismatch = errors.New("native: buffer count does not match pipeline bindings")

	// ErrUnaligned is returned for buffer writes not aligned to 4 bytes.
	ErrUnaligned = errors.New("native: unaligned buffer write")

	// ErrBufferOverflow is returned for writes past the end of a buffer.
	ErrBufferOverflow = errors.New("native: write past end of buffer")
)
