package favilla

import (
	"fmt"
	"time"

	"github.com/vulkan-go/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// DefaultFramesInFlight is the number of frames the engine overlaps unless
// told otherwise.
const DefaultFramesInFlight = 2

// oneTimeSubmitTimeout bounds how long OneTimeSubmit waits on its fence.
const oneTimeSubmitTimeout = 10 * time.Second

// Engine bundles the instance, device and queue state an application needs
// before it can upload resources and render. It picks the first physical
// device with a queue family that supports both graphics and presenting to
// the window surface.
type Engine struct {
	App      *App
	Instance *Instance

	Window    *glfw.Window
	VKSurface vk.Surface

	PhysicalDevice *PhysicalDevice
	QueueFamily    *QueueFamily
	Device         *Device
	Queue          *Queue

	// UploadCommandPool services OneTimeSubmit.
	UploadCommandPool *CommandPool

	frameCounter uint64
}

// CreateEngine initializes Vulkan for the given window. The window must have
// been created with glfw.ClientAPI set to glfw.NoAPI.
func CreateEngine(app *App, window *glfw.Window) (*Engine, error) {

	for _, ext := range window.GetRequiredInstanceExtensions() {
		app.EnableExtension(ext)
	}

	instance, err := app.CreateInstance()
	if err != nil {
		return nil, fmt.Errorf("unable to create instance: %w", err)
	}

	surfacePtr, err := window.CreateWindowSurface(instance.VKInstance, nil)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("unable to create window surface: %w", err)
	}
	surface := vk.SurfaceFromPointer(surfacePtr)

	pdevice, family, err := instance.FindDeviceForSurface(surface)
	if err != nil {
		vk.DestroySurface(instance.VKInstance, surface, nil)
		instance.Destroy()
		return nil, err
	}

	device, err := pdevice.CreateLogicalDeviceWithOptions(QueueFamilySlice{family}, &CreateDeviceOptions{
		EnabledExtensions: []string{"VK_KHR_swapchain"},
	})
	if err != nil {
		vk.DestroySurface(instance.VKInstance, surface, nil)
		instance.Destroy()
		return nil, fmt.Errorf("unable to create device: %w", err)
	}

	queue := device.GetQueue(family)

	pool, err := device.CreateCommandPool(family)
	if err != nil {
		device.Destroy()
		vk.DestroySurface(instance.VKInstance, surface, nil)
		instance.Destroy()
		return nil, err
	}

	return &Engine{
		App:               app,
		Instance:          instance,
		Window:            window,
		VKSurface:         surface,
		PhysicalDevice:    pdevice,
		QueueFamily:       family,
		Device:            device,
		Queue:             queue,
		UploadCommandPool: pool,
	}, nil
}

// OneTimeSubmit records commands into a fresh command buffer, submits it on
// the engine's queue and blocks until it completes. Used for uploads and
// other work outside the frame loop.
func (e *Engine) OneTimeSubmit(record func(cmd *CommandBuffer)) error {
	cmd, err := e.UploadCommandPool.AllocateBuffer()
	if err != nil {
		return err
	}
	defer e.UploadCommandPool.FreeBuffer(cmd)

	err = cmd.BeginOneTime()
	if err != nil {
		return err
	}

	record(cmd)

	err = cmd.End()
	if err != nil {
		return err
	}

	fence, err := e.Device.CreateFence()
	if err != nil {
		return err
	}
	defer fence.Destroy()

	err = e.Queue.SubmitWithFence(fence, cmd)
	if err != nil {
		return err
	}

	return e.Device.WaitForFences(true, oneTimeSubmitTimeout, fence)
}

// FrameCounter returns the number of frames advanced so far.
func (e *Engine) FrameCounter() uint64 {
	return e.frameCounter
}

// AdvanceFrame bumps the engine frame counter. Call once per rendered frame.
func (e *Engine) AdvanceFrame() {
	e.frameCounter++
}

// ScreenExtent reads the current framebuffer size from the window.
func (e *Engine) ScreenExtent() vk.Extent2D {
	width, height := e.Window.GetFramebufferSize()
	return vk.Extent2D{Width: uint32(width), Height: uint32(height)}
}

// WaitIdle blocks until the device finishes all submitted work.
func (e *Engine) WaitIdle() error {
	return e.Device.WaitIdle()
}

// Destroy tears down everything the engine owns. Resources created through
// the engine must be destroyed first.
func (e *Engine) Destroy() {
	e.Device.WaitIdle()
	e.UploadCommandPool.Destroy()
	e.Device.Destroy()
	vk.DestroySurface(e.Instance.VKInstance, e.VKSurface, nil)
	e.Instance.Destroy()
}
