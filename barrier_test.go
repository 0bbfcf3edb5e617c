package favilla

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestPlanUploadFromUndefined(t *testing.T) {
	pre, post := PlanUpload(vk.ImageLayoutUndefined)

	if pre.OldLayout != vk.ImageLayoutUndefined {
		t.Errorf("pre.OldLayout = %v, want Undefined", pre.OldLayout)
	}
	if pre.NewLayout != vk.ImageLayoutTransferDstOptimal {
		t.Errorf("pre.NewLayout = %v, want TransferDstOptimal", pre.NewLayout)
	}
	if pre.SrcStageMask != vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit) {
		t.Errorf("pre.SrcStageMask = %v, want TopOfPipe", pre.SrcStageMask)
	}
	if pre.DstStageMask != vk.PipelineStageFlags(vk.PipelineStageTransferBit) {
		t.Errorf("pre.DstStageMask = %v, want Transfer", pre.DstStageMask)
	}
	if pre.SrcAccessMask != 0 {
		t.Errorf("pre.SrcAccessMask = %v, want 0", pre.SrcAccessMask)
	}
	if pre.DstAccessMask != vk.AccessFlags(vk.AccessTransferWriteBit) {
		t.Errorf("pre.DstAccessMask = %v, want TransferWrite", pre.DstAccessMask)
	}

	if post.OldLayout != vk.ImageLayoutTransferDstOptimal {
		t.Errorf("post.OldLayout = %v, want TransferDstOptimal", post.OldLayout)
	}
	if post.NewLayout != vk.ImageLayoutShaderReadOnlyOptimal {
		t.Errorf("post.NewLayout = %v, want ShaderReadOnlyOptimal", post.NewLayout)
	}
	if post.SrcStageMask != vk.PipelineStageFlags(vk.PipelineStageTransferBit) {
		t.Errorf("post.SrcStageMask = %v, want Transfer", post.SrcStageMask)
	}
	if post.DstStageMask != vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit) {
		t.Errorf("post.DstStageMask = %v, want FragmentShader", post.DstStageMask)
	}
	if post.SrcAccessMask != vk.AccessFlags(vk.AccessTransferWriteBit) {
		t.Errorf("post.SrcAccessMask = %v, want TransferWrite", post.SrcAccessMask)
	}
	if post.DstAccessMask != vk.AccessFlags(vk.AccessShaderReadBit) {
		t.Errorf("post.DstAccessMask = %v, want ShaderRead", post.DstAccessMask)
	}
}

func TestPlanUploadLayoutEndpoints(t *testing.T) {
	layouts := []vk.ImageLayout{
		vk.ImageLayoutUndefined,
		vk.ImageLayoutTransferDstOptimal,
		vk.ImageLayoutShaderReadOnlyOptimal,
	}

	for _, layout := range layouts {
		pre, post := PlanUpload(layout)
		if pre.OldLayout != layout {
			t.Errorf("PlanUpload(%v): pre.OldLayout = %v", layout, pre.OldLayout)
		}
		if pre.NewLayout != vk.ImageLayoutTransferDstOptimal {
			t.Errorf("PlanUpload(%v): pre.NewLayout = %v", layout, pre.NewLayout)
		}
		if post.OldLayout != vk.ImageLayoutTransferDstOptimal {
			t.Errorf("PlanUpload(%v): post.OldLayout = %v", layout, post.OldLayout)
		}
		if post.NewLayout != vk.ImageLayoutShaderReadOnlyOptimal {
			t.Errorf("PlanUpload(%v): post.NewLayout = %v", layout, post.NewLayout)
		}
	}
}

// The post barrier must not depend on where the image starts out.
func TestPlanUploadPostIndependentOfInitialLayout(t *testing.T) {
	_, fromUndefined := PlanUpload(vk.ImageLayoutUndefined)
	_, fromShaderRead := PlanUpload(vk.ImageLayoutShaderReadOnlyOptimal)

	if fromUndefined != fromShaderRead {
		t.Errorf("post barrier differs by initial layout: %+v vs %+v", fromUndefined, fromShaderRead)
	}
}

func TestPlanUploadReuploadDiffersOnlyInOldLayout(t *testing.T) {
	preA, _ := PlanUpload(vk.ImageLayoutUndefined)
	preB, _ := PlanUpload(vk.ImageLayoutShaderReadOnlyOptimal)

	preB.OldLayout = preA.OldLayout
	if preA != preB {
		t.Errorf("pre barriers differ beyond OldLayout: %+v vs %+v", preA, preB)
	}
}

func TestPlanUploadDeterministic(t *testing.T) {
	pre1, post1 := PlanUpload(vk.ImageLayoutShaderReadOnlyOptimal)
	pre2, post2 := PlanUpload(vk.ImageLayoutShaderReadOnlyOptimal)

	if pre1 != pre2 || post1 != post2 {
		t.Error("PlanUpload is not deterministic for identical input")
	}
}

func TestVKImageMemoryBarrierFields(t *testing.T) {
	pre, _ := PlanUpload(vk.ImageLayoutUndefined)

	barrier := pre.VKImageMemoryBarrier(vk.NullImage, 4)

	if barrier.SType != vk.StructureTypeImageMemoryBarrier {
		t.Errorf("SType = %v", barrier.SType)
	}
	if barrier.OldLayout != pre.OldLayout || barrier.NewLayout != pre.NewLayout {
		t.Errorf("layouts = %v -> %v, want %v -> %v", barrier.OldLayout, barrier.NewLayout, pre.OldLayout, pre.NewLayout)
	}
	if barrier.SrcAccessMask != pre.SrcAccessMask || barrier.DstAccessMask != pre.DstAccessMask {
		t.Errorf("access masks = %v -> %v", barrier.SrcAccessMask, barrier.DstAccessMask)
	}
	if barrier.SrcQueueFamilyIndex != vk.QueueFamilyIgnored || barrier.DstQueueFamilyIndex != vk.QueueFamilyIgnored {
		t.Error("queue family indices must be QueueFamilyIgnored")
	}
	if barrier.SubresourceRange.LayerCount != 4 {
		t.Errorf("LayerCount = %d, want 4", barrier.SubresourceRange.LayerCount)
	}
	if barrier.SubresourceRange.AspectMask != vk.ImageAspectFlags(vk.ImageAspectColorBit) {
		t.Errorf("AspectMask = %v, want color", barrier.SubresourceRange.AspectMask)
	}
	if barrier.SubresourceRange.BaseMipLevel != 0 || barrier.SubresourceRange.LevelCount != 1 {
		t.Errorf("mip range = %d/%d, want 0/1", barrier.SubresourceRange.BaseMipLevel, barrier.SubresourceRange.LevelCount)
	}
}
