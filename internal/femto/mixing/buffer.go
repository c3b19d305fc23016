// Package mixing holds the bounded event buffers used for mixed pairs and the
// hideaway that selects one buffer per bin of up to three event properties.
package mixing

import (
	"errors"
	"fmt"
	"iter"

	"github.com/banshee-data/femto/internal/femto/particle"
)

var (
	// ErrInvalidCapacity is returned for a mixing depth below one.
	ErrInvalidCapacity = errors.New("mixing: capacity must be at least 1")
	// ErrInvalidAxis is returned for a binning axis that cannot hold values.
	ErrInvalidAxis = errors.New("mixing: invalid axis")
)

// Buffer is a FIFO of PicoEvents with a fixed capacity. It owns every event
// it holds and releases an event when it is evicted or drained.
type Buffer struct {
	ring  []*particle.PicoEvent
	head  int // index of the oldest entry
	count int
}

// NewBuffer returns an empty buffer holding at most capacity events.
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}
	return &Buffer{ring: make([]*particle.PicoEvent, capacity)}, nil
}

func (b *Buffer) Len() int   { return b.count }
func (b *Buffer) Cap() int   { return len(b.ring) }
func (b *Buffer) Full() bool { return b.count == len(b.ring) }

// Push takes ownership of ev. When the buffer is full the oldest event is
// released first, so the length never exceeds the capacity.
func (b *Buffer) Push(ev *particle.PicoEvent) {
	if b.Full() {
		oldest := b.ring[b.head]
		b.ring[b.head] = nil
		b.head = (b.head + 1) % len(b.ring)
		b.count--
		oldest.Release()
	}
	b.ring[(b.head+b.count)%len(b.ring)] = ev
	b.count++
}

// At returns the i-th stored event, 0 being the oldest.
func (b *Buffer) At(i int) *particle.PicoEvent {
	if i < 0 || i >= b.count {
		panic(fmt.Sprintf("mixing: index %d out of range [0,%d)", i, b.count))
	}
	return b.ring[(b.head+i)%len(b.ring)]
}

// All yields the stored events from oldest to newest.
func (b *Buffer) All() iter.Seq[*particle.PicoEvent] {
	return func(yield func(*particle.PicoEvent) bool) {
		for i := range b.count {
			if !yield(b.ring[(b.head+i)%len(b.ring)]) {
				return
			}
		}
	}
}

// Drain releases every stored event and empties the buffer.
func (b *Buffer) Drain() {
	for i := range b.count {
		idx := (b.head + i) % len(b.ring)
		b.ring[idx].Release()
		b.ring[idx] = nil
	}
	b.head, b.count = 0, 0
}
