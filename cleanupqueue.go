package favilla

// IDestructable is anything owning vulkan resources which can be released
// with a single call.
type IDestructable interface {
	Destroy()
}

// CleanupQueue defers resource destruction until the GPU can no longer be
// using the resource. Resources queued during frame N are destroyed once the
// frame ring has gone all the way around, which is safe as long as the number
// of frames matches the number of frames in flight and Tick is called once
// per frame after waiting on that frame's fence.
type CleanupQueue struct {
	frameQueue        [][]IDestructable
	currentFrameIndex int
}

// NewCleanupQueue creates a cleanup queue for the given number of frames in
// flight.
func NewCleanupQueue(numFrames int) *CleanupQueue {
	return &CleanupQueue{
		frameQueue: make([][]IDestructable, numFrames),
	}
}

func (c *CleanupQueue) numFrames() int {
	return len(c.frameQueue)
}

// Resources are attached to the most recently ticked frame so they survive
// until the ring wraps around to it again.
func (c *CleanupQueue) queueFrameIndex() int {
	return (c.currentFrameIndex + c.numFrames() - 1) % c.numFrames()
}

// Queue schedules the given resources for deferred destruction.
func (c *CleanupQueue) Queue(resources ...IDestructable) {
	i := c.queueFrameIndex()
	c.frameQueue[i] = append(c.frameQueue[i], resources...)
}

// Tick destroys the resources whose deferral period has elapsed and advances
// the frame ring. Call once per frame, after the frame's fence has signaled.
func (c *CleanupQueue) Tick() {
	for _, r := range c.frameQueue[c.currentFrameIndex] {
		r.Destroy()
	}
	c.frameQueue[c.currentFrameIndex] = nil

	c.currentFrameIndex = (c.currentFrameIndex + 1) % c.numFrames()
}

// Destroy immediately destroys everything still queued. Only call once the
// device is idle.
func (c *CleanupQueue) Destroy() {
	for i := range c.frameQueue {
		for _, r := range c.frameQueue[i] {
			r.Destroy()
		}
		c.frameQueue[i] = nil
	}
}
