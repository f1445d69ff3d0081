// Package dedupe coalesces pending recalculation triggers. A burst of
// score-affecting mutations for the same student collapses to one queued
// recomputation; the key is released once the worker picks the trigger up.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Coalescer tracks pending trigger keys for at-most-once queueing.
type Coalescer interface {
	// SeenAndRecord atomically checks whether key is already pending and
	// records it if not. Returns true if the key was already pending.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord releases a key, either after the worker dequeued its trigger
	// or when an enqueue failed and the caller rolls back.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

const defaultMaxSize = 50000

// inMemoryCoalescer implements Coalescer with a bounded map. When the bound
// is reached the oldest pending key is evicted; evicting a pending key only
// lets a duplicate trigger through, and recomputation is idempotent, so
// that is safe.
type inMemoryCoalescer struct {
	mu      sync.Mutex
	pending map[string]struct{}
	order   []string // insertion order for FIFO eviction
	maxSize int
	size    atomic.Int64
}

// NewInMemoryCoalescer creates a bounded in-memory coalescer.
func NewInMemoryCoalescer(opts ...Option) Coalescer {
	c := &inMemoryCoalescer{
		pending: make(map[string]struct{}),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *inMemoryCoalescer) SeenAndRecord(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[key]; ok {
		return true
	}

	if c.maxSize > 0 && len(c.pending) >= c.maxSize {
		c.evictOldest()
	}

	c.pending[key] = struct{}{}
	c.order = append(c.order, key)
	c.size.Add(1)
	return false
}

func (c *inMemoryCoalescer) Unrecord(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[key]; !ok {
		return
	}
	delete(c.pending, key)
	c.size.Add(-1)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// evictOldest drops the longest-pending key. Must be called with c.mu held.
func (c *inMemoryCoalescer) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	k := c.order[0]
	c.order = c.order[1:]
	delete(c.pending, k)
	c.size.Add(-1)
}

func (c *inMemoryCoalescer) Size() int64 {
	return c.size.Load()
}
