package favilla

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

func (d *Device) WaitIdle() error {
	return vk.Error(vk.DeviceWaitIdle(d.VKDevice))
}

// GetQueue returns queue 0 of the given family.
func (d *Device) GetQueue(qf *QueueFamily) *Queue {
	var vkq vk.Queue
	vk.GetDeviceQueue(d.VKDevice, uint32(qf.Index), 0, &vkq)

	return &Queue{
		QueueFamily: qf,
		Device:      d,
		VKQueue:     vkq,
	}
}

// Allocate allocates device memory, choosing a memory type that matches the
// given requirement bits and property flags.
func (d *Device) Allocate(sizeInBytes int, memoryTypeBits uint32, memoryProperties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {

	allocateInfo := vk.MemoryAllocateInfo{
		SType:          vk.StructureTypeMemoryAllocateInfo,
		AllocationSize: vk.DeviceSize(sizeInBytes),
	}

	var err error
	allocateInfo.MemoryTypeIndex, err = d.PhysicalDevice.FindMemoryType(memoryTypeBits, memoryProperties)
	if err != nil {
		return nil, err
	}

	var deviceMemory vk.DeviceMemory
	err = vk.Error(vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &deviceMemory))
	if err != nil {
		return nil, err
	}

	return &DeviceMemory{
		Size:           uint64(sizeInBytes),
		Device:         d,
		VKDeviceMemory: deviceMemory,
	}, nil
}

// AllocateForBuffer allocates memory suitable for the given buffer. The
// buffer still has to be bound to the returned memory.
func (d *Device) AllocateForBuffer(b *Buffer, memoryProperties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {
	mr := b.VKMemoryRequirements()
	mr.Deref()
	return d.Allocate(int(mr.Size), mr.MemoryTypeBits, memoryProperties)
}

// AllocateForImage allocates memory suitable for the given image. The image
// still has to be bound to the returned memory.
func (d *Device) AllocateForImage(i *Image, memoryProperties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {
	mr := i.VKMemoryRequirements()
	mr.Deref()
	return d.Allocate(int(mr.Size), mr.MemoryTypeBits, memoryProperties)
}
