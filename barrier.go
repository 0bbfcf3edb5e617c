package favilla

import (
	vk "github.com/vulkan-go/vulkan"
)

// BarrierSpec describes a single image memory barrier: the pipeline stages it
// orders, the accesses it makes visible, and the layout transition it performs.
// All fields are exported so that applications with needs beyond the helpers
// in this package can assemble a custom barrier directly and record it with
// CmdImageBarrier.
type BarrierSpec struct {
	SrcStageMask  vk.PipelineStageFlags
	DstStageMask  vk.PipelineStageFlags
	SrcAccessMask vk.AccessFlags
	DstAccessMask vk.AccessFlags
	OldLayout     vk.ImageLayout
	NewLayout     vk.ImageLayout
}

// PlanUpload computes the pair of barriers needed around a staging-buffer to
// image copy: pre transitions the image from initialLayout into
// TransferDstOptimal and makes it available to the transfer stage, post
// transitions it to ShaderReadOnlyOptimal and makes the transfer write visible
// to shader reads.
//
// PlanUpload assumes the image will only be sampled from a fragment shader.
// If the image is read by another stage (for instance a vertex shader) the
// post barrier's destination stage is too late; build a custom BarrierSpec
// instead of using this helper.
//
// PlanUpload is a pure function. It records nothing and tracks nothing; the
// caller records the barriers around the copy (see
// CommandBuffer.CmdCopyStagingToTexture) and owns the image's layout state.
// initialLayout is typically ImageLayoutUndefined for a fresh image, or
// ImageLayoutShaderReadOnlyOptimal when re-uploading. Passing the layout of
// an image with no pending write yields a correct but redundant pre barrier.
func PlanUpload(initialLayout vk.ImageLayout) (pre BarrierSpec, post BarrierSpec) {
	pre = BarrierSpec{
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		SrcAccessMask: 0,
		DstAccessMask: vk.AccessFlags(vk.AccessTransferWriteBit),
		OldLayout:     initialLayout,
		NewLayout:     vk.ImageLayoutTransferDstOptimal,
	}

	post = BarrierSpec{
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
		SrcAccessMask: vk.AccessFlags(vk.AccessTransferWriteBit),
		DstAccessMask: vk.AccessFlags(vk.AccessShaderReadBit),
		OldLayout:     vk.ImageLayoutTransferDstOptimal,
		NewLayout:     vk.ImageLayoutShaderReadOnlyOptimal,
	}

	return pre, post
}

// VKImageMemoryBarrier expands the barrier description into a native barrier for the given
// image. The subresource range covers layerCount color layers, mip level 0.
func (s BarrierSpec) VKImageMemoryBarrier(image vk.Image, layerCount uint32) vk.ImageMemoryBarrier {
	return vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       s.SrcAccessMask,
		DstAccessMask:       s.DstAccessMask,
		OldLayout:           s.OldLayout,
		NewLayout:           s.NewLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     layerCount,
		},
	}
}

// CmdImageBarrier records a pipeline barrier with s' stage masks and
// the given image barriers. The barriers will normally have been produced by
// BarrierSpec.VKImageMemoryBarrier or Texture.VKImageMemoryBarrier, but any
// barrier consistent with the stage masks may be passed.
func (c *CommandBuffer) CmdImageBarrier(s BarrierSpec, barriers ...vk.ImageMemoryBarrier) {
	vk.CmdPipelineBarrier(c.VK(), s.SrcStageMask, s.DstStageMask, 0, 0, nil, 0, nil, uint32(len(barriers)), barriers)
}
