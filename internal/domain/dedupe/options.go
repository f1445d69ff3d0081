// Package dedupe coalesces pending recalculation triggers.
package dedupe

// Option applies a configuration option to the in-memory coalescer.
type Option func(*inMemoryCoalescer)

// WithMaxSize bounds the number of pending keys. A non-positive size means
// unbounded.
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCoalescer) {
		c.maxSize = maxSize
	}
}
