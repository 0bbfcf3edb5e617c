package favilla

import (
	"testing"
)

type destroyCounter struct {
	destroyed int
}

func (d *destroyCounter) Destroy() {
	d.destroyed++
}

func TestCleanupQueueDefersFullRing(t *testing.T) {
	const numFrames = 3

	q := NewCleanupQueue(numFrames)
	r := &destroyCounter{}

	q.Queue(r)

	for i := 0; i < numFrames-1; i++ {
		q.Tick()
		if r.destroyed != 0 {
			t.Fatalf("resource destroyed after %d ticks, want deferral of %d", i+1, numFrames)
		}
	}

	q.Tick()
	if r.destroyed != 1 {
		t.Errorf("resource destroyed %d times after full ring, want 1", r.destroyed)
	}

	// Further ticks must not destroy it again.
	q.Tick()
	q.Tick()
	q.Tick()
	if r.destroyed != 1 {
		t.Errorf("resource destroyed %d times, want 1", r.destroyed)
	}
}

func TestCleanupQueuePerFrameBatches(t *testing.T) {
	q := NewCleanupQueue(2)

	a := &destroyCounter{}
	b := &destroyCounter{}

	q.Queue(a)
	q.Tick()
	q.Queue(b)
	q.Tick()

	if a.destroyed != 1 {
		t.Errorf("a destroyed %d times, want 1", a.destroyed)
	}
	if b.destroyed != 0 {
		t.Error("b destroyed too early")
	}

	q.Tick()
	if b.destroyed != 1 {
		t.Errorf("b destroyed %d times, want 1", b.destroyed)
	}
}

func TestCleanupQueueDestroyFlushesAll(t *testing.T) {
	q := NewCleanupQueue(3)

	a := &destroyCounter{}
	b := &destroyCounter{}

	q.Queue(a, b)
	q.Destroy()

	if a.destroyed != 1 || b.destroyed != 1 {
		t.Errorf("destroy counts = %d, %d, want 1, 1", a.destroyed, b.destroyed)
	}

	// Destroy emptied the queue, a second call is a no-op.
	q.Destroy()
	if a.destroyed != 1 || b.destroyed != 1 {
		t.Error("resources destroyed twice")
	}
}
