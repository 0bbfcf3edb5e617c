package favilla

import (
	vk "github.com/vulkan-go/vulkan"
)

// Image wraps a raw Vulkan image handle together with the properties needed
// later for views, transfers and barriers. Like Buffer, an Image owns no
// memory until bound.
type Image struct {
	Device         *Device
	VKImage        vk.Image
	VKFormat       vk.Format
	Extent         vk.Extent2D
	NumArrayLayers uint32
}

// ImageOptions control image creation beyond the defaults of CreateImage.
type ImageOptions struct {
	Tiling      vk.ImageTiling
	Usage       vk.ImageUsageFlags
	ArrayLayers uint32
}

// CreateImage creates a 2D optimally tiled single layer image suitable as a
// sampled transfer destination, the common case for texture uploads.
func (d *Device) CreateImage(extent vk.Extent2D, format vk.Format) (*Image, error) {
	return d.CreateImageWithOptions(extent, format, ImageOptions{
		Tiling:      vk.ImageTilingOptimal,
		Usage:       vk.ImageUsageFlags(vk.ImageUsageTransferDstBit | vk.ImageUsageSampledBit),
		ArrayLayers: 1,
	})
}

func (d *Device) CreateImageWithOptions(extent vk.Extent2D, format vk.Format, options ImageOptions) (*Image, error) {

	layers := options.ArrayLayers
	if layers == 0 {
		layers = 1
	}

	var imageInfo = vk.ImageCreateInfo{}
	imageInfo.SType = vk.StructureTypeImageCreateInfo
	imageInfo.ImageType = vk.ImageType2d
	imageInfo.Extent.Width = extent.Width
	imageInfo.Extent.Height = extent.Height
	imageInfo.Extent.Depth = 1
	imageInfo.MipLevels = 1
	imageInfo.ArrayLayers = layers
	imageInfo.Format = format
	imageInfo.Tiling = options.Tiling
	imageInfo.InitialLayout = vk.ImageLayoutUndefined
	imageInfo.Usage = options.Usage
	imageInfo.Samples = vk.SampleCount1Bit
	imageInfo.SharingMode = vk.SharingModeExclusive

	var image vk.Image

	err := vk.Error(vk.CreateImage(d.VKDevice, &imageInfo, nil, &image))
	if err != nil {
		return nil, err
	}

	var ret Image

	ret.Device = d
	ret.VKImage = image
	ret.VKFormat = format
	ret.Extent = extent
	ret.NumArrayLayers = layers

	return &ret, nil
}

func (i *Image) VKMemoryRequirements() vk.MemoryRequirements {
	var memRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(i.Device.VKDevice, i.VKImage, &memRequirements)
	return memRequirements
}

// Bind binds this image to device memory at the given offset.
func (i *Image) Bind(memory *DeviceMemory, offset uint64) error {
	return vk.Error(vk.BindImageMemory(i.Device.VKDevice, i.VKImage, memory.VKDeviceMemory, vk.DeviceSize(offset)))
}

// BindSubAllocation binds this image into the region of allocator memory
// described by the sub allocation.
func (i *Image) BindSubAllocation(sub *SubAllocation) error {
	return i.Bind(sub.Memory, sub.Offset)
}

func (i *Image) Destroy() {
	vk.DestroyImage(i.Device.VKDevice, i.VKImage, nil)
}

type ImageView struct {
	Device      *Device
	VKImageView vk.ImageView
}

func (i *ImageView) Destroy() {
	vk.DestroyImageView(i.Device.VKDevice, i.VKImageView, nil)
}

func (i *Image) CreateImageViewWithAspectMask(mask vk.ImageAspectFlags) (*ImageView, error) {
	createInfo := &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    i.VKImage,
		ViewType: vk.ImageViewType2d,
		Format:   i.VKFormat,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleR,
			G: vk.ComponentSwizzleG,
			B: vk.ComponentSwizzleB,
			A: vk.ComponentSwizzleA,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: mask,
			LevelCount: 1,
			LayerCount: i.NumArrayLayers,
		},
	}

	var view vk.ImageView

	err := vk.Error(vk.CreateImageView(i.Device.VKDevice, createInfo, nil, &view))
	if err != nil {
		return nil, err
	}
	var ret ImageView
	ret.Device = i.Device
	ret.VKImageView = view

	return &ret, nil

}

func (i *Image) CreateImageView() (*ImageView, error) {
	return i.CreateImageViewWithAspectMask(vk.ImageAspectFlags(vk.ImageAspectColorBit))
}
