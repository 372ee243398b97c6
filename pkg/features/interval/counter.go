package interval

import (
	"context"
	"sync"
	"time"

	"github.com/vango-go/fetchview/pkg/vango"
)

// Counter increments a signal once per period until it reaches Max.
type Counter struct {
	every time.Duration
	max   int
	value *vango.Signal[int]

	mu   sync.Mutex
	stop func()
	done chan struct{}
}

// NewCounter creates a stopped counter at zero. max == 0 means unbounded.
func NewCounter(every time.Duration, max int) *Counter {
	done := make(chan struct{})
	close(done)
	return &Counter{
		every: every,
		max:   max,
		value: vango.NewSignal(0),
		done:  done,
	}
}

// Value returns the current count.
func (c *Counter) Value() int { return c.value.Get() }

// Max returns the exit value, or 0 if unbounded.
func (c *Counter) Max() int { return c.max }

// Subscribe registers l for every change of the count.
func (c *Counter) Subscribe(l vango.Listener) func() {
	return c.value.Subscribe(l)
}

// Start begins counting. It returns ErrInvalidPeriod for a non-positive
// period and is a no-op while the counter is already running.
func (c *Counter) Start(ctx context.Context) error {
	if c.every <= 0 {
		return ErrInvalidPeriod
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
	default:
		return nil
	}

	if c.max > 0 && c.value.Get() >= c.max {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.done = done
	c.stop = cancel

	go func() {
		defer close(done)
		_ = Run(ctx, c.every, func(int) bool {
			var n int
			c.value.Update(func(v int) int {
				n = v + 1
				return n
			})
			return c.max == 0 || n < c.max
		})
	}()
	return nil
}

// Done returns a channel closed when the current run ends.
func (c *Counter) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Stop halts counting and waits for the run to end.
func (c *Counter) Stop() {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop = nil
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
	<-done
}
