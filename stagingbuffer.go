package favilla

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// DedicatedBuffer is a buffer with its own device memory allocation bound at
// offset zero. Use it for resources whose lifetime does not fit a
// LinearAllocator, or when the driver prefers a dedicated allocation.
type DedicatedBuffer struct {
	Buffer *Buffer
	Memory *DeviceMemory
}

// CreateDedicatedBuffer creates a buffer and backs it with a fresh memory
// allocation of a matching memory type.
func (d *Device) CreateDedicatedBuffer(sizeInBytes uint64, usage vk.BufferUsageFlags, memoryProperties vk.MemoryPropertyFlagBits) (*DedicatedBuffer, error) {

	buffer, err := d.CreateBuffer(sizeInBytes, usage)
	if err != nil {
		return nil, err
	}

	memory, err := d.AllocateForBuffer(buffer, memoryProperties)
	if err != nil {
		buffer.Destroy()
		return nil, err
	}

	err = buffer.Bind(memory, 0)
	if err != nil {
		memory.Destroy()
		buffer.Destroy()
		return nil, err
	}

	return &DedicatedBuffer{
		Buffer: buffer,
		Memory: memory,
	}, nil
}

func (b *DedicatedBuffer) Destroy() {
	b.Buffer.Destroy()
	b.Memory.Destroy()
}

// StagingBuffer is a host visible, host coherent buffer that stays
// persistently mapped for its whole lifetime. Write into it from the CPU,
// then record a transfer from it into a device local buffer or image.
type StagingBuffer struct {
	DedicatedBuffer *DedicatedBuffer
	Ptr             unsafe.Pointer
}

// CreateStagingBuffer creates a persistently mapped transfer source buffer.
func (d *Device) CreateStagingBuffer(sizeInBytes uint64) (*StagingBuffer, error) {

	dedicated, err := d.CreateDedicatedBuffer(sizeInBytes,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return nil, err
	}

	ptr, err := dedicated.Memory.Map()
	if err != nil {
		dedicated.Destroy()
		return nil, err
	}

	return &StagingBuffer{
		DedicatedBuffer: dedicated,
		Ptr:             ptr,
	}, nil
}

// Write copies data into the mapped staging memory at the given byte offset.
// The memory is host coherent so no explicit flush is required.
func (s *StagingBuffer) Write(data []byte, offset uint64) error {
	if offset+uint64(len(data)) > s.DedicatedBuffer.Buffer.Size {
		return fmt.Errorf("write of %d bytes at offset %d exceeds staging buffer size %d",
			len(data), offset, s.DedicatedBuffer.Buffer.Size)
	}
	dst := ToBytes(unsafe.Pointer(uintptr(s.Ptr)+uintptr(offset)), len(data))
	copy(dst, data)
	return nil
}

// VKBuffer returns the underlying buffer handle for transfer commands.
func (s *StagingBuffer) VKBuffer() vk.Buffer {
	return s.DedicatedBuffer.Buffer.VKBuffer
}

// Destroy unmaps and frees the staging buffer.
func (s *StagingBuffer) Destroy() {
	s.DedicatedBuffer.Memory.Unmap()
	s.DedicatedBuffer.Destroy()
}
