package octree

import (
	"sync/atomic"

	"github.com/benbjohnson/clock"
)

// FrameClock is a tick counter advanced by the owner of a tree, typically once per simulation
// frame. It may be advanced from a different goroutine than the one reading it.
type FrameClock struct {
	frame atomic.Uint64
}

// Now returns the current frame.
func (c *FrameClock) Now() uint64 {
	return c.frame.Load()
}

// Advance moves the clock forward by n frames and returns the new frame.
func (c *FrameClock) Advance(n uint64) uint64 {
	return c.frame.Add(n)
}

// WallClock returns a timestamp source reading c in Unix nanoseconds.
func WallClock(c clock.Clock) func() int64 {
	return func() int64 {
		return c.Now().UnixNano()
	}
}
