// Package backend is the registry of GPU device implementations.
//
// Device packages register a factory from an init function:
//
//	func init() {
//		backend.Register(backend.NameHeadless, func() (gpucore.Device, error) {
//			return NewHeadless()
//		})
//	}
//
// Applications import the implementations they want and either ask for one
// by name or let Default pick the first available in priority order:
//
//	import _ "github.com/gogpu/termatlas/backend/native"
//
//	dev, err := backend.Open("")
//
// The renderer itself never opens devices; it draws with whatever device
// the payload carries.
package backend
