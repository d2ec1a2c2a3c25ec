package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

var (
	ErrBusClosed = errors.New("event bus is closed")
	ErrBusFull   = errors.New("event bus is full")
)

// Bus queues profiled events for the archive consumer. Publish never waits
// for room: a full queue drops the event and reports ErrBusFull, so a slow
// archive cannot stall analysis.
type Bus struct {
	mu      sync.RWMutex
	closed  bool
	queue   chan entity.ProfiledEvent
	dropped atomic.Int64
}

func NewBus(capacity int) *Bus {
	return &Bus{queue: make(chan entity.ProfiledEvent, max(capacity, 1))}
}

func (b *Bus) Publish(ctx context.Context, ev entity.ProfiledEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.queue <- ev:
		return nil
	default:
		b.dropped.Add(1)
		return ErrBusFull
	}
}

// Events is drained by the consumer; it is closed by Close.
func (b *Bus) Events() <-chan entity.ProfiledEvent {
	return b.queue
}

// Pending is the number of queued events not yet picked up.
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Dropped counts events rejected because the queue was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.queue)
	}
}
