/*
Package favilla provides utilities on top of the Vulkan graphics API for go.
It is not an engine and it does not try to hide Vulkan; it takes care of the
repetitive parts of getting pixels on screen so applications can spend their
code on what is actually interesting about them.

The native handles are exposed on every object, prefixed with 'VK' in the
name, so applications are never limited by what this package wraps. Where the
package makes a choice (exclusive sharing, single mip level, 2D images) the
Vulkan structures are still reachable for applications that need more.

What the package covers:

	Engine			instance, surface, device and queue setup for a window
	LinearAllocator		bump allocation of device memory with aligned sub allocations
	StagingBuffer		a persistently mapped transfer source
	Texture			a sampled image with upload helpers
	PlanUpload		the barrier pair around a staging to image copy
	SwapchainManager	swapchain plus per image views and framebuffers, with recreation
	FrameDataManager	per frame command buffers, semaphores and fences
	CleanupQueue		deferred destruction of resources still in flight
	PushBuffer		a growable typed buffer for per frame vertex data
	Camera			a 2D camera producing Vulkan clip space matrices

Uploading a texture is the path most applications hit first and shows the
shape of the package. Data is written into a StagingBuffer on the host, then
a command buffer records a barrier into TransferDstOptimal, the copy, and a
barrier into ShaderReadOnlyOptimal:

	texture, err := device.CreateTexture(extent, vk.FormatR8g8b8a8Unorm)
	...
	err = engine.UploadTexture(texture, pixels)

or, recording into an existing command buffer:

	cmd.CmdCopyStagingToTexture(staging, texture, 0, layerSize)

The layout of an image is caller owned state. Texture.Layout is only a
record of the last transition the caller recorded; nothing in this package
inspects the GPU to find out where an image really is.
*/
package favilla
