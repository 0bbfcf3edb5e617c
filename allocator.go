package favilla

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

var insufficientAllocatorSpaceError = fmt.Errorf("insufficient space in linear allocator")

// SubAllocation is a slice of a larger device memory allocation. Vulkan limits
// the number of allocations an application may make, so related resources
// should be sub-allocated from one DeviceMemory rather than each performing
// their own allocation.
type SubAllocation struct {
	Memory *DeviceMemory
	Offset uint64
	Size   uint64
}

func (a *SubAllocation) String() string {
	return fmt.Sprintf("[%d %d]", a.Offset, a.Size)
}

// LinearAllocator hands out sub-allocations of a single DeviceMemory by
// advancing a watermark. Individual sub-allocations cannot be freed; the
// whole allocator is reset or destroyed at once.
type LinearAllocator struct {
	Memory *DeviceMemory
	Size   uint64

	freeSectionStart uint64
}

// CreateLinearAllocator allocates device memory of the given size and wraps
// it in a LinearAllocator. The memory type is chosen from memoryTypeBits and
// the requested properties, as with Device.Allocate.
func (d *Device) CreateLinearAllocator(sizeInBytes int, memoryTypeBits uint32, memoryProperties vk.MemoryPropertyFlagBits) (*LinearAllocator, error) {
	memory, err := d.Allocate(sizeInBytes, memoryTypeBits, memoryProperties)
	if err != nil {
		return nil, err
	}
	return &LinearAllocator{Memory: memory, Size: uint64(sizeInBytes)}, nil
}

func makeAlignUp(a uint64, align uint64) uint64 {
	if align == 0 {
		align = 1
	}
	m := a % align
	if m == 0 {
		return a
	}
	return (a - m) + align
}

// Allocate returns the next free sub-allocation of the given size, aligned up
// as requested, or insufficientAllocatorSpaceError when the remaining space
// cannot hold it.
func (p *LinearAllocator) Allocate(size uint64, align uint64) (*SubAllocation, error) {
	offset := makeAlignUp(p.freeSectionStart, align)
	newStart := offset + size

	if newStart > p.Size {
		return nil, insufficientAllocatorSpaceError
	}

	p.freeSectionStart = newStart

	return &SubAllocation{
		Memory: p.Memory,
		Offset: offset,
		Size:   size,
	}, nil
}

// AllocateForRequirements is a convenience wrapper around Allocate for a
// dereferenced vk.MemoryRequirements.
func (p *LinearAllocator) AllocateForRequirements(mr vk.MemoryRequirements) (*SubAllocation, error) {
	return p.Allocate(uint64(mr.Size), uint64(mr.Alignment))
}

// Reset forgets all sub-allocations, making the full size available again.
// The caller must guarantee the device is done with them.
func (p *LinearAllocator) Reset() {
	p.freeSectionStart = 0
}

func (p *LinearAllocator) String() string {
	return fmt.Sprintf("{used: %d size: %d}", p.freeSectionStart, p.Size)
}

// Destroy frees the underlying device memory, invalidating every
// sub-allocation handed out.
func (p *LinearAllocator) Destroy() {
	if p.Memory != nil {
		p.Memory.Destroy()
		p.Memory = nil
	}
	p.freeSectionStart = 0
	p.Size = 0
}
