package simulation

import "golang.org/x/exp/constraints"

// FrameCounter counts frames from 1 up to and including a total.
type FrameCounter[T constraints.Unsigned] struct {
	current T
	total   T
}

// NewFrameCounter creates a counter that yields total frames.
func NewFrameCounter[T constraints.Unsigned](total T) *FrameCounter[T] {
	return &FrameCounter[T]{total: total}
}

// Next moves to the next frame. It returns false once total frames have been
// counted. It never overflows, even when total is the largest value of T.
func (c *FrameCounter[T]) Next() bool {
	if c.current == c.total {
		return false
	}

	c.current++

	return true
}

// Current returns the frame the counter is at, 0 before the first Next.
func (c *FrameCounter[T]) Current() T {
	return c.current
}

// Total returns the number of frames the counter yields.
func (c *FrameCounter[T]) Total() T {
	return c.total
}
