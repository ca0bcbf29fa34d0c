// Package native implements gpucore.Device on top of the gogpu/wgpu
// hardware abstraction layer.
//
// Buffers map one to one onto hal buffers. A pipeline owns its shader
// module, bind group layout, pipeline layout and render pipeline; the
// layout is derived from the binding kinds of the pipeline description.
// Every Submit builds a bind group for the pass's buffers, records a single
// render pass with one instanced draw per draw range and waits for the
// queue on a fence.
//
// A pass without a target draws into an offscreen texture owned by the
// device, which is what headless rendering and tests use.
//
// Devices come from an existing hal device and queue:
//
//	dev := native.New(halDevice, halQueue, native.Options{})
//
// from a gpucontext.DeviceProvider that exposes its hal objects:
//
//	dev, err := native.NewFromProvider(provider)
//
// or, without any GPU, from the wgpu noop adapter:
//
//	dev, err := native.NewHeadless()
package native
