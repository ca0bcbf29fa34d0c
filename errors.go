package termatlas

import (
	"errors"

	"github.com/gogpu/termatlas/gpucore"
)

var (
	// ErrDeviceLost is returned by Render when the device or one of the
	// GPU resources became invalid. The backend is left in StateLost and
	// must be released with ReleaseResources before it can render again.
	ErrDeviceLost = gpucore.ErrDeviceLost

	// ErrNoDevice is returned when a payload carries no device.
	ErrNoDevice = errors.New("termatlas: payload has no device")

	// ErrInvalidPayload is returned when a payload is structurally invalid
	// (missing settings, zero cell size, row count mismatch).
	ErrInvalidPayload = errors.New("termatlas: invalid payload")
)
