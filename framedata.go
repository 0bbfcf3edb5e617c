package favilla

import (
	"time"
)

// PerFrameData holds the synchronization primitives and command buffer for
// one frame in flight.
type PerFrameData struct {
	CommandBuffer  *CommandBuffer
	ImageAvailable *Semaphore
	RenderFinished *Semaphore
	InFlight       *Fence
}

// FrameDataManager owns the per frame data for a fixed number of frames in
// flight and rotates through them. Frame fences start signaled so the first
// wait on each frame slot passes immediately.
type FrameDataManager struct {
	Frames       []*PerFrameData
	CommandPool  *CommandPool
	currentFrame int
}

// CreateFrameDataManager allocates numFrames command buffers from a fresh
// pool on the given queue family plus the matching semaphores and fences.
func (d *Device) CreateFrameDataManager(queueFamily *QueueFamily, numFrames int) (*FrameDataManager, error) {
	pool, err := d.CreateCommandPool(queueFamily)
	if err != nil {
		return nil, err
	}

	buffers, err := pool.AllocateBuffers(numFrames)
	if err != nil {
		pool.Destroy()
		return nil, err
	}

	m := &FrameDataManager{
		CommandPool: pool,
		Frames:      make([]*PerFrameData, numFrames),
	}

	for i := 0; i < numFrames; i++ {
		imageAvailable, err := d.CreateSemaphore()
		if err != nil {
			m.Destroy()
			return nil, err
		}
		renderFinished, err := d.CreateSemaphore()
		if err != nil {
			imageAvailable.Destroy()
			m.Destroy()
			return nil, err
		}
		inFlight, err := d.CreateSignaledFence()
		if err != nil {
			imageAvailable.Destroy()
			renderFinished.Destroy()
			m.Destroy()
			return nil, err
		}
		m.Frames[i] = &PerFrameData{
			CommandBuffer:  buffers[i],
			ImageAvailable: imageAvailable,
			RenderFinished: renderFinished,
			InFlight:       inFlight,
		}
	}

	return m, nil
}

// NumFrames returns the number of frames in flight.
func (m *FrameDataManager) NumFrames() int {
	return len(m.Frames)
}

// CurrentFrame returns the data for the frame slot currently being recorded.
func (m *FrameDataManager) CurrentFrame() *PerFrameData {
	return m.Frames[m.currentFrame]
}

// CurrentFrameIndex returns the index of the current frame slot.
func (m *FrameDataManager) CurrentFrameIndex() int {
	return m.currentFrame
}

// WaitForCurrentFrame blocks until the current frame slot's previous
// submission has finished. The fence is left signaled; reset it with
// Fence.Reset only once the frame is certain to be submitted, otherwise a
// frame that bails out early leaves the next wait on this slot hanging
// forever.
func (m *FrameDataManager) WaitForCurrentFrame(timeout time.Duration) error {
	frame := m.CurrentFrame()
	return frame.InFlight.Device.WaitForFences(true, timeout, frame.InFlight)
}

// AdvanceFrame moves to the next frame slot.
func (m *FrameDataManager) AdvanceFrame() {
	m.currentFrame = (m.currentFrame + 1) % len(m.Frames)
}

// Destroy releases all per frame resources and the pool. Safe to call on a
// partially constructed manager.
func (m *FrameDataManager) Destroy() {
	for _, frame := range m.Frames {
		if frame == nil {
			continue
		}
		frame.ImageAvailable.Destroy()
		frame.RenderFinished.Destroy()
		frame.InFlight.Destroy()
	}
	m.CommandPool.Destroy()
}
