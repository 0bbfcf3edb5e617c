package favilla

import (
	"fmt"
)

// PushBuffer is a growable CPU side staging area for data that is rebuilt
// often, such as the vertices of a dynamic scene. Data is written through
// passes: a pass starts at some element index, pushes elements one at a time
// and, once finished, establishes the buffer's new length. The backing slice
// is exported so the accumulated data can be handed to a staging buffer
// without copying.
type PushBuffer[T any] struct {
	Data []T

	length int
}

// NewPushBuffer creates a push buffer with the given, non-zero capacity in
// elements.
func NewPushBuffer[T any](capacity int) *PushBuffer[T] {
	if capacity <= 0 {
		panic("push buffer capacity must be > 0")
	}
	return &PushBuffer[T]{Data: make([]T, capacity)}
}

// Len returns the currently used length of the buffer in elements.
func (p *PushBuffer[T]) Len() int {
	return p.length
}

// Cap returns the allocated capacity of the buffer in elements.
func (p *PushBuffer[T]) Cap() int {
	return len(p.Data)
}

// StartPass begins writing at startIndex, truncating the buffer's length to
// that position. Data before startIndex is kept, which allows static data at
// the front of the buffer to survive passes that only rewrite the tail.
func (p *PushBuffer[T]) StartPass(startIndex int) (*PushBufferPass[T], error) {
	if startIndex < 0 || startIndex >= p.Cap() {
		return nil, fmt.Errorf("pass start index %d out of range, capacity is %d", startIndex, p.Cap())
	}
	p.length = startIndex
	return &PushBufferPass[T]{pushBuffer: p, index: startIndex}, nil
}

// PushBufferPass writes elements to its PushBuffer from a given start index.
type PushBufferPass[T any] struct {
	pushBuffer *PushBuffer[T]
	index      int
}

// Push appends one element, overwriting existing data or growing the buffer
// as needed.
func (p *PushBufferPass[T]) Push(element T) {
	if p.index == len(p.pushBuffer.Data) {
		grown := make([]T, 2*len(p.pushBuffer.Data))
		copy(grown, p.pushBuffer.Data)
		p.pushBuffer.Data = grown
	}

	p.pushBuffer.Data[p.index] = element
	p.index++
}

// Finish ends the pass and updates the buffer's length. Skipping Finish
// leaves the buffer reporting the length it had when the pass started.
func (p *PushBufferPass[T]) Finish() {
	p.pushBuffer.length = p.index
}
