package favilla

import (
	"image"
	"image/draw"
	"os"

	// Register the common decoders for LoadRGBAFromDisk.
	_ "image/jpeg"
	_ "image/png"

	vk "github.com/vulkan-go/vulkan"
)

// Texture is a sampled 2D image (optionally an array) backed by a dedicated
// memory allocation, together with a default view and a caller maintained
// layout. The library never tracks layouts across command buffers; Layout is
// simply the value the caller last recorded a transition to, and it is the
// caller's job to keep it honest.
type Texture struct {
	Device         *Device
	Image          *Image
	Memory         *DeviceMemory
	View           *ImageView
	Format         vk.Format
	Extent         vk.Extent2D
	NumArrayLayers uint32
	Layout         vk.ImageLayout
}

// TextureOptions control texture creation beyond the CreateTexture defaults.
type TextureOptions struct {
	Usage       vk.ImageUsageFlags
	ArrayLayers uint32
}

// CreateTexture creates a device local single layer texture usable as a
// transfer destination and sampled image. Its Layout starts as Undefined;
// upload data with CmdCopyStagingToTexture or UploadTexture before sampling.
func (d *Device) CreateTexture(extent vk.Extent2D, format vk.Format) (*Texture, error) {
	return d.CreateTextureWithOptions(extent, format, TextureOptions{
		Usage:       vk.ImageUsageFlags(vk.ImageUsageTransferDstBit | vk.ImageUsageSampledBit),
		ArrayLayers: 1,
	})
}

func (d *Device) CreateTextureWithOptions(extent vk.Extent2D, format vk.Format, options TextureOptions) (*Texture, error) {

	layers := options.ArrayLayers
	if layers == 0 {
		layers = 1
	}

	img, err := d.CreateImageWithOptions(extent, format, ImageOptions{
		Tiling:      vk.ImageTilingOptimal,
		Usage:       options.Usage,
		ArrayLayers: layers,
	})
	if err != nil {
		return nil, err
	}

	memory, err := d.AllocateForImage(img, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		img.Destroy()
		return nil, err
	}

	err = img.Bind(memory, 0)
	if err != nil {
		memory.Destroy()
		img.Destroy()
		return nil, err
	}

	view, err := img.CreateImageView()
	if err != nil {
		memory.Destroy()
		img.Destroy()
		return nil, err
	}

	return &Texture{
		Device:         d,
		Image:          img,
		Memory:         memory,
		View:           view,
		Format:         format,
		Extent:         extent,
		NumArrayLayers: layers,
		Layout:         vk.ImageLayoutUndefined,
	}, nil
}

// VKImageMemoryBarrier expands a barrier spec into a native barrier covering
// all of this texture's array layers.
func (t *Texture) VKImageMemoryBarrier(s BarrierSpec) vk.ImageMemoryBarrier {
	return s.VKImageMemoryBarrier(t.Image.VKImage, t.NumArrayLayers)
}

// CmdCopyBufferToImage records a full extent copy of one array layer from a
// buffer into the texture. The texture must be in TransferDstOptimal.
func (c *CommandBuffer) CmdCopyBufferToImage(buffer vk.Buffer, t *Texture, bufferOffset uint64, arrayLayer uint32) {
	vk.CmdCopyBufferToImage(c.VK(), buffer, t.Image.VKImage, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{
		{
			BufferOffset:      vk.DeviceSize(bufferOffset),
			BufferRowLength:   0,
			BufferImageHeight: 0,
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				MipLevel:       0,
				BaseArrayLayer: arrayLayer,
				LayerCount:     1,
			},
			ImageOffset: vk.Offset3D{},
			ImageExtent: vk.Extent3D{
				Width: t.Extent.Width, Height: t.Extent.Height, Depth: 1,
			},
		},
	})
}

// CmdCopyStagingToTexture records the full upload sequence into the command
// buffer: the pre barrier from the texture's current Layout into
// TransferDstOptimal, one copy per array layer from consecutive regions of
// the staging buffer, and the post barrier into ShaderReadOnlyOptimal. On
// return the texture's Layout field reflects the state the image will be in
// once the commands execute.
//
// layerSize is the byte size of one array layer in the staging buffer;
// layer i is read from offset bufferOffset + i*layerSize.
func (c *CommandBuffer) CmdCopyStagingToTexture(staging *StagingBuffer, t *Texture, bufferOffset uint64, layerSize uint64) {
	pre, post := PlanUpload(t.Layout)

	c.CmdImageBarrier(pre, t.VKImageMemoryBarrier(pre))

	for layer := uint32(0); layer < t.NumArrayLayers; layer++ {
		c.CmdCopyBufferToImage(staging.VKBuffer(), t, bufferOffset+uint64(layer)*layerSize, layer)
	}

	c.CmdImageBarrier(post, t.VKImageMemoryBarrier(post))

	t.Layout = post.NewLayout
}

// UploadTexture writes pixel data through a staging buffer and submits the
// upload on the engine's one time command pool, waiting for completion. It is
// a convenience for tools and startup paths; render loops should prefer
// recording CmdCopyStagingToTexture into their own command buffers.
func (e *Engine) UploadTexture(t *Texture, data []byte) error {
	staging, err := e.Device.CreateStagingBuffer(uint64(len(data)))
	if err != nil {
		return err
	}
	defer staging.Destroy()

	err = staging.Write(data, 0)
	if err != nil {
		return err
	}

	layerSize := uint64(len(data)) / uint64(t.NumArrayLayers)

	return e.OneTimeSubmit(func(cmd *CommandBuffer) {
		cmd.CmdCopyStagingToTexture(staging, t, 0, layerSize)
	})
}

// LoadRGBAFromDisk decodes an image file and converts it to tightly packed
// RGBA suitable for a FormatR8g8b8a8Unorm texture.
func LoadRGBAFromDisk(file string) (*image.RGBA, error) {
	reader, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	src, _, err := image.Decode(reader)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	m := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(m, m.Bounds(), src, b.Min, draw.Src)

	return m, nil
}

// LoadTextureFromDisk decodes an image file, creates a matching texture and
// uploads the pixels, waiting for the transfer to finish.
func (e *Engine) LoadTextureFromDisk(file string) (*Texture, error) {
	img, err := LoadRGBAFromDisk(file)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	extent := vk.Extent2D{Width: uint32(b.Dx()), Height: uint32(b.Dy())}

	texture, err := e.Device.CreateTexture(extent, vk.FormatR8g8b8a8Unorm)
	if err != nil {
		return nil, err
	}

	err = e.UploadTexture(texture, img.Pix)
	if err != nil {
		texture.Destroy()
		return nil, err
	}

	return texture, nil
}

// CreateSampler creates a sampler with linear filtering and repeat
// addressing, the usual choice for the textures this library uploads.
func (d *Device) CreateSampler() (vk.Sampler, error) {
	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1.0,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
	}

	var sampler vk.Sampler
	err := vk.Error(vk.CreateSampler(d.VKDevice, &samplerInfo, nil, &sampler))
	if err != nil {
		return vk.NullSampler, err
	}
	return sampler, nil
}

// Destroy releases the view, image and memory.
func (t *Texture) Destroy() {
	t.View.Destroy()
	t.Image.Destroy()
	t.Memory.Destroy()
}
