// Package gpucore defines the GPU device abstraction the termatlas engine
// draws through.
//
// The engine never talks to a graphics API directly. It creates buffers and
// one render pipeline through a [Device], uploads instance, atlas and
// constant data with WriteBuffer, and submits a [RenderPass] per flush:
//
//	            +------------------+
//	            |  render.Engine   |
//	            +--------+---------+
//	                     | gpucore.Device
//	         +-----------+-----------+
//	         |                       |
//	+--------v--------+     +--------v--------+
//	| backend/native  |     |   test fakes    |
//	| (wgpu HAL)      |     |  (recording)    |
//	+-----------------+     +-----------------+
//
// Resources are addressed by opaque IDs. Each implementation maps IDs to
// its own handles; [InvalidID] is never issued.
package gpucore
