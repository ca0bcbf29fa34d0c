package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/termatlas/gpucore"
)

// Well-known device names.
const (
	// NameHeadless is a wgpu device without a GPU behind it.
	NameHeadless = "headless"
	// NameSoftware executes the quad pipeline on the CPU.
	NameSoftware = "software"
)

// ErrNotAvailable is returned when a requested device is not registered.
var ErrNotAvailable = errors.New("backend: not available")

// Factory opens a device.
type Factory func() (gpucore.Device, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Default (first that opens wins).
	priority = []string{NameSoftware, NameHeadless}
)

// Register registers a device factory with the given name. A factory
// registered under an existing name replaces it.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes a factory. This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Open opens the device registered as name. An empty name opens the
// default device.
func Open(name string) (gpucore.Device, error) {
	if name == "" {
		return Default()
	}
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotAvailable, name)
	}
	return f()
}

// Default opens the first device in priority order that opens without
// error, then tries the remaining registered devices by name.
func Default() (gpucore.Device, error) {
	registryMu.RLock()
	order := slices.Clone(priority)
	rest := make([]string, 0, len(factories))
	for name := range factories {
		if !slices.Contains(order, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	order = append(order, rest...)

	var names []string
	var fs []Factory
	for _, name := range order {
		if f, ok := factories[name]; ok {
			names = append(names, name)
			fs = append(fs, f)
		}
	}
	registryMu.RUnlock()

	var errs []error
	for i, f := range fs {
		dev, err := f()
		if err == nil {
			return dev, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", names[i], err))
	}
	if len(errs) == 0 {
		return nil, ErrNotAvailable
	}
	return nil, fmt.Errorf("%w: %w", ErrNotAvailable, errors.Join(errs...))
}
