package favilla

import (
	vk "github.com/vulkan-go/vulkan"
)

type Swapchain struct {
	Extent      vk.Extent2D
	Format      vk.Format
	Device      *Device
	VKSwapchain vk.Swapchain
}

func (s *Swapchain) Destroy() {
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}

func (s *Swapchain) GetImages() ([]*Image, error) {
	var imageCount uint32
	err := vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, nil))
	if err != nil {
		return nil, err
	}

	swapchainImages := make([]vk.Image, imageCount)
	err = vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, swapchainImages))

	ret := make([]*Image, imageCount)
	for i := range swapchainImages {
		ret[i] = &Image{}
		ret[i].Device = s.Device
		ret[i].VKImage = swapchainImages[i]
		ret[i].VKFormat = s.Format
		ret[i].Extent = s.Extent
		ret[i].NumArrayLayers = 1
	}

	return ret, err
}

type CreateSwapchainOptions struct {
	OldSwapchain              *Swapchain
	ActualSize                vk.Extent2D
	DesiredNumSwapchainImages int
}

func (d *Device) DefaultNumSwapchainImages(surface vk.Surface) (int, error) {
	caps, err := d.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return 0, err
	}
	caps.Deref()

	return int(caps.MinImageCount) + 1, nil
}

// CreateSwapchain creates a swapchain on the surface, preferring mailbox
// presentation and falling back to fifo, which is always available.
func (d *Device) CreateSwapchain(surface vk.Surface, graphicsQueue, presentQueue *Queue, options *CreateSwapchainOptions) (*Swapchain, error) {

	modes, err := d.PhysicalDevice.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}

	presentMode := vk.PresentModeFifo
	m := modes.Filter(vk.PresentModeMailbox)
	if len(m) > 0 {
		presentMode = m[0]
	}

	format, err := d.PhysicalDevice.FindSurfaceFormat(surface)
	if err != nil {
		return nil, err
	}

	caps, err := d.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return nil, err
	}
	caps.Deref()

	var swapchainSize vk.Extent2D

	caps.CurrentExtent.Deref()
	if caps.CurrentExtent.Width == vk.MaxUint32 {
		if options != nil {
			swapchainSize = options.ActualSize
		} else {
			swapchainSize = caps.MinImageExtent
		}
	} else {
		swapchainSize = caps.CurrentExtent
	}

	desiredSwapChainImages := 0
	if options != nil {
		desiredSwapChainImages = options.DesiredNumSwapchainImages
	}

	if desiredSwapChainImages == 0 {
		desiredSwapChainImages, err = d.DefaultNumSwapchainImages(surface)
		if err != nil {
			return nil, err
		}
	}

	var swapchain vk.Swapchain

	createInfo := &vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         surface,
		MinImageCount:   uint32(desiredSwapChainImages),
		ImageFormat:     format.Format,
		ImageColorSpace: format.ColorSpace,
		ImageExtent: vk.Extent2D{
			Width:  swapchainSize.Width,
			Height: swapchainSize.Height,
		},
		PresentMode:      presentMode,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageArrayLayers: 1,
		Clipped:          vk.True,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		OldSwapchain:     vk.NullSwapchain,
	}

	if options != nil && options.OldSwapchain != nil {
		createInfo.OldSwapchain = options.OldSwapchain.VKSwapchain
	}

	if graphicsQueue.QueueFamily.Index != presentQueue.QueueFamily.Index {
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{uint32(graphicsQueue.QueueFamily.Index), uint32(presentQueue.QueueFamily.Index)}
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
	} else {
		createInfo.QueueFamilyIndexCount = 0
		createInfo.PQueueFamilyIndices = nil
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	err = vk.Error(vk.CreateSwapchain(d.VKDevice, createInfo, nil, &swapchain))
	if err != nil {
		return nil, err
	}

	var ret Swapchain
	ret.VKSwapchain = swapchain
	ret.Device = d
	ret.Extent = vk.Extent2D{
		Width:  swapchainSize.Width,
		Height: swapchainSize.Height,
	}
	ret.Format = format.Format

	return &ret, nil

}

// SwapchainManager owns a swapchain together with the per image views and
// framebuffers a render loop needs, and can rebuild all of it when the
// surface changes size.
type SwapchainManager struct {
	Engine       *Engine
	RenderPass   vk.RenderPass
	Swapchain    *Swapchain
	Images       []*Image
	ImageViews   []*ImageView
	Framebuffers []vk.Framebuffer
}

// CreateSwapchainManager creates the swapchain plus one view and framebuffer
// per swapchain image, attached to the given render pass.
func (e *Engine) CreateSwapchainManager(renderPass vk.RenderPass) (*SwapchainManager, error) {
	m := &SwapchainManager{
		Engine:     e,
		RenderPass: renderPass,
	}

	err := m.create(nil)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *SwapchainManager) create(old *Swapchain) error {
	e := m.Engine

	swapchain, err := e.Device.CreateSwapchain(e.VKSurface, e.Queue, e.Queue, &CreateSwapchainOptions{
		ActualSize:   e.ScreenExtent(),
		OldSwapchain: old,
	})
	if err != nil {
		return err
	}
	m.Swapchain = swapchain

	images, err := swapchain.GetImages()
	if err != nil {
		m.abortCreate()
		return err
	}
	m.Images = images

	m.ImageViews = make([]*ImageView, len(images))
	m.Framebuffers = make([]vk.Framebuffer, len(images))
	for i, img := range images {
		view, err := img.CreateImageView()
		if err != nil {
			m.abortCreate()
			return err
		}
		m.ImageViews[i] = view

		attachments := []vk.ImageView{view.VKImageView}
		fbCreateInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      m.RenderPass,
			Layers:          1,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           swapchain.Extent.Width,
			Height:          swapchain.Extent.Height,
		}
		err = vk.Error(vk.CreateFramebuffer(e.Device.VKDevice, &fbCreateInfo, nil, &m.Framebuffers[i]))
		if err != nil {
			m.abortCreate()
			return err
		}
	}

	return nil
}

// abortCreate releases whatever a failed create managed to build, including
// the new swapchain itself. An old swapchain passed to create stays the
// caller's responsibility.
func (m *SwapchainManager) abortCreate() {
	m.destroyImageResources()
	m.Swapchain.Destroy()
	m.Swapchain = nil
}

// NumImages returns the number of swapchain images.
func (m *SwapchainManager) NumImages() int {
	return len(m.Images)
}

// Extent returns the current swapchain extent.
func (m *SwapchainManager) Extent() vk.Extent2D {
	return m.Swapchain.Extent
}

// AcquireNextImage acquires the next swapchain image, signaling the semaphore
// when the image is ready. The raw result is returned alongside so callers
// can react to ErrorOutOfDate and Suboptimal by recreating.
func (m *SwapchainManager) AcquireNextImage(imageAvailable *Semaphore) (uint32, vk.Result, error) {
	var imageIndex uint32
	res := vk.AcquireNextImage(m.Engine.Device.VKDevice, m.Swapchain.VKSwapchain, vk.MaxUint64,
		imageAvailable.VKSemaphore, vk.NullFence, &imageIndex)
	if res == vk.ErrorOutOfDate || res == vk.Suboptimal {
		return imageIndex, res, nil
	}
	return imageIndex, res, vk.Error(res)
}

// Present queues the image for presentation once renderFinished signals. The
// raw result is returned so callers can detect an out of date swapchain.
func (m *SwapchainManager) Present(imageIndex uint32, renderFinished *Semaphore) (vk.Result, error) {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{m.Swapchain.VKSwapchain},
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{renderFinished.VKSemaphore},
		PImageIndices:      []uint32{imageIndex},
	}

	res := vk.QueuePresent(m.Engine.Queue.VKQueue, &presentInfo)
	if res == vk.ErrorOutOfDate || res == vk.Suboptimal {
		return res, nil
	}
	return res, vk.Error(res)
}

// Recreate waits for the device to go idle, destroys the per image resources
// and rebuilds the swapchain at the window's current size.
func (m *SwapchainManager) Recreate() error {
	err := m.Engine.Device.WaitIdle()
	if err != nil {
		return err
	}

	old := m.Swapchain
	m.destroyImageResources()

	err = m.create(old)
	old.Destroy()
	return err
}

// destroyImageResources tolerates a partially built manager, where the
// trailing views and framebuffers were never created.
func (m *SwapchainManager) destroyImageResources() {
	for _, fb := range m.Framebuffers {
		if fb == vk.NullFramebuffer {
			continue
		}
		vk.DestroyFramebuffer(m.Engine.Device.VKDevice, fb, nil)
	}
	m.Framebuffers = nil

	for _, view := range m.ImageViews {
		if view == nil {
			continue
		}
		view.Destroy()
	}
	m.ImageViews = nil
	m.Images = nil
}

// Destroy releases the framebuffers, views and the swapchain itself.
func (m *SwapchainManager) Destroy() {
	m.destroyImageResources()
	m.Swapchain.Destroy()
}
