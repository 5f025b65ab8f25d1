// Package dedupe defines the interface for idempotency tracking.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen rating-event IDs to ensure at-most-once
// application.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing a retry. Use it
	// only when an event was marked seen but failed to enqueue.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

const defaultMaxSize = 50000

// inMemoryDeduper implements Deduper with a bounded map. When the bound
// is reached the oldest recorded id is evicted (FIFO). A non-positive
// bound disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]bool
	order   []string
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration
// options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]bool)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.seen[id] {
		return true
	}

	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize {
			oldest := d.order[0]
			d.order = d.order[1:]
			delete(d.seen, oldest)
			d.size.Add(-1)
		}
		d.order = append(d.order, id)
	}
	d.seen[id] = true
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.seen[id] {
		return
	}
	delete(d.seen, id)
	if d.maxSize > 0 {
		for i, queued := range d.order {
			if queued == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
	d.size.Add(-1)
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
