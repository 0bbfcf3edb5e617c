package favilla

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSetLayout describes the layout of a descriptor set.
type DescriptorSetLayout struct {
	Device                        *Device
	VKDescriptorSetLayout         vk.DescriptorSetLayout
	VKDescriptorSetLayoutBindings []vk.DescriptorSetLayoutBinding
}

func (d *Device) NewDescriptorSetLayout() *DescriptorSetLayout {
	return &DescriptorSetLayout{Device: d}
}

// AddBinding adds a binding to the layout. Call before Create.
func (l *DescriptorSetLayout) AddBinding(binding vk.DescriptorSetLayoutBinding) {
	l.VKDescriptorSetLayoutBindings = append(l.VKDescriptorSetLayoutBindings, binding)
}

// AddCombinedImageSamplerBinding adds a fragment stage sampler binding, the
// shape every sampled texture in this library uses.
func (l *DescriptorSetLayout) AddCombinedImageSamplerBinding(binding int, count int) {
	l.AddBinding(vk.DescriptorSetLayoutBinding{
		Binding:         uint32(binding),
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: uint32(count),
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	})
}

// AddUniformBufferBinding adds a uniform buffer binding visible to the given
// stages.
func (l *DescriptorSetLayout) AddUniformBufferBinding(binding int, stages vk.ShaderStageFlags) {
	l.AddBinding(vk.DescriptorSetLayoutBinding{
		Binding:         uint32(binding),
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      stages,
	})
}

// Create creates the native layout from the accumulated bindings.
func (l *DescriptorSetLayout) Create() error {
	var descriptorSetLayoutCreateInfo = &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(l.VKDescriptorSetLayoutBindings)),
		PBindings:    l.VKDescriptorSetLayoutBindings,
	}

	var descriptorSetLayout vk.DescriptorSetLayout
	err := vk.Error(vk.CreateDescriptorSetLayout(l.Device.VKDevice, descriptorSetLayoutCreateInfo, nil, &descriptorSetLayout))
	if err != nil {
		return err
	}

	l.VKDescriptorSetLayout = descriptorSetLayout
	return nil
}

func (l *DescriptorSetLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(l.Device.VKDevice, l.VKDescriptorSetLayout, nil)
}

// DescriptorPool allocates descriptor sets. Declare the pool sizes with
// AddPoolSize, then Create.
type DescriptorPool struct {
	Device               *Device
	VKDescriptorPool     vk.DescriptorPool
	VKDescriptorPoolSize []vk.DescriptorPoolSize
}

func (d *Device) NewDescriptorPool() *DescriptorPool {
	return &DescriptorPool{Device: d}
}

// AddPoolSize declares how many descriptors of a type the pool will contain.
func (p *DescriptorPool) AddPoolSize(dtype vk.DescriptorType, count int) {
	p.VKDescriptorPoolSize = append(p.VKDescriptorPoolSize, vk.DescriptorPoolSize{
		Type:            dtype,
		DescriptorCount: uint32(count),
	})
}

// Create creates the native pool with room for maxSets sets.
func (p *DescriptorPool) Create(maxSets int) error {

	var descriptorPoolCreateInfo = vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       uint32(maxSets),
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		PoolSizeCount: uint32(len(p.VKDescriptorPoolSize)),
		PPoolSizes:    p.VKDescriptorPoolSize,
	}

	var descriptorPool vk.DescriptorPool
	err := vk.Error(vk.CreateDescriptorPool(p.Device.VKDevice, &descriptorPoolCreateInfo, nil, &descriptorPool))
	if err != nil {
		return err
	}

	p.VKDescriptorPool = descriptorPool
	return nil
}

// Allocate allocates one descriptor set from the pool for the given layout.
func (p *DescriptorPool) Allocate(layout *DescriptorSetLayout) (*DescriptorSet, error) {
	sets, err := p.AllocateSets(layout, 1)
	if err != nil {
		return nil, err
	}
	return sets[0], nil
}

// AllocateSets allocates count descriptor sets sharing the same layout, one
// per frame in flight being the usual reason for count > 1.
func (p *DescriptorPool) AllocateSets(layout *DescriptorSetLayout, count int) ([]*DescriptorSet, error) {

	dsl := make([]vk.DescriptorSetLayout, count)
	for i := range dsl {
		dsl[i] = layout.VKDescriptorSetLayout
	}

	descriptorSetAllocateInfo := vk.DescriptorSetAllocateInfo{}
	descriptorSetAllocateInfo.SType = vk.StructureTypeDescriptorSetAllocateInfo
	descriptorSetAllocateInfo.DescriptorPool = p.VKDescriptorPool
	descriptorSetAllocateInfo.DescriptorSetCount = uint32(count)
	descriptorSetAllocateInfo.PSetLayouts = dsl

	ret := make([]*DescriptorSet, count)
	for i := range ret {
		single := descriptorSetAllocateInfo
		single.DescriptorSetCount = 1
		single.PSetLayouts = dsl[i : i+1]

		var descriptorSet vk.DescriptorSet
		err := vk.Error(vk.AllocateDescriptorSets(p.Device.VKDevice, &single, &descriptorSet))
		if err != nil {
			return nil, err
		}

		ret[i] = &DescriptorSet{
			Device:          p.Device,
			DescriptorPool:  p,
			VKDescriptorSet: descriptorSet,
		}
	}

	return ret, nil
}

func (p *DescriptorPool) Reset() error {
	return vk.Error(vk.ResetDescriptorPool(p.Device.VKDevice, p.VKDescriptorPool, 0))
}

func (p *DescriptorPool) Free(ds *DescriptorSet) error {
	descriptorSet := ds.VKDescriptorSet
	return vk.Error(vk.FreeDescriptorSets(p.Device.VKDevice, p.VKDescriptorPool, 1, &descriptorSet))
}

func (p *DescriptorPool) Destroy() {
	vk.DestroyDescriptorPool(p.Device.VKDevice, p.VKDescriptorPool, nil)
}

// DescriptorSet is a binding of resources to a descriptor, per a specific
// DescriptorSetLayout. Accumulate writes with the Add methods, then apply
// them with Write.
type DescriptorSet struct {
	Device                *Device
	DescriptorPool        *DescriptorPool
	VKDescriptorSet       vk.DescriptorSet
	VKWriteDescriptorSets []vk.WriteDescriptorSet
}

// AddBuffer adds a buffer write to this descriptor set.
func (ds *DescriptorSet) AddBuffer(dstBinding int, dtype vk.DescriptorType, b *Buffer, offset int) {
	var writeDescriptorSet = vk.WriteDescriptorSet{}
	writeDescriptorSet.SType = vk.StructureTypeWriteDescriptorSet
	writeDescriptorSet.DstBinding = uint32(dstBinding)
	writeDescriptorSet.DescriptorCount = 1
	writeDescriptorSet.DescriptorType = dtype
	writeDescriptorSet.PBufferInfo = []vk.DescriptorBufferInfo{b.DSInfo(offset)}

	ds.VKWriteDescriptorSets = append(ds.VKWriteDescriptorSets, writeDescriptorSet)
}

// AddCombinedImageSampler adds an image layout, image view and sampler write
// to support sampling a texture.
func (ds *DescriptorSet) AddCombinedImageSampler(dstBinding int, layout vk.ImageLayout, imageView vk.ImageView, sampler vk.Sampler) {

	var descriptorImageInfo = vk.DescriptorImageInfo{}
	descriptorImageInfo.ImageView = imageView
	descriptorImageInfo.ImageLayout = layout
	descriptorImageInfo.Sampler = sampler

	var writeDescriptorSet = vk.WriteDescriptorSet{}
	writeDescriptorSet.SType = vk.StructureTypeWriteDescriptorSet
	writeDescriptorSet.DstBinding = uint32(dstBinding)
	writeDescriptorSet.DescriptorCount = 1
	writeDescriptorSet.DescriptorType = vk.DescriptorTypeCombinedImageSampler
	writeDescriptorSet.PImageInfo = []vk.DescriptorImageInfo{descriptorImageInfo}

	ds.VKWriteDescriptorSets = append(ds.VKWriteDescriptorSets, writeDescriptorSet)

}

// AddTexture adds a combined image sampler write for the texture's view at
// its current layout.
func (ds *DescriptorSet) AddTexture(dstBinding int, t *Texture, sampler vk.Sampler) {
	ds.AddCombinedImageSampler(dstBinding, t.Layout, t.View.VKImageView, sampler)
}

// Write applies the accumulated writes to the device.
func (ds *DescriptorSet) Write() {
	for i := range ds.VKWriteDescriptorSets {
		ds.VKWriteDescriptorSets[i].DstSet = ds.VKDescriptorSet
	}
	vk.UpdateDescriptorSets(ds.Device.VKDevice, uint32(len(ds.VKWriteDescriptorSets)), ds.VKWriteDescriptorSets, 0, nil)
	ds.VKWriteDescriptorSets = nil
}
