package interval

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrInvalidPeriod is returned when the period is not positive.
var ErrInvalidPeriod = errors.New("interval: period must be positive")

// Func is called once per tick with the 1-based tick number. Returning false
// ends the run.
type Func func(tick int) bool

// Option configures a run.
type Option func(*config)

type config struct {
	immediate bool
}

// Immediate fires the first tick at once instead of after one period.
func Immediate() Option {
	return func(c *config) {
		c.immediate = true
	}
}

// Run calls fn every period until fn returns false or ctx is done.
// It returns ctx.Err() when the context ended the run, nil otherwise.
func Run(ctx context.Context, every time.Duration, fn Func, opts ...Option) error {
	if every <= 0 {
		return ErrInvalidPeriod
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	tick := 0
	if cfg.immediate {
		if err := ctx.Err(); err != nil {
			return err
		}
		tick++
		if !fn(tick) {
			return nil
		}
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			tick++
			if !fn(tick) {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Start runs fn on its own goroutine and returns a function that stops it.
// The stop function waits for an in-progress tick to finish and may be
// called more than once.
func Start(ctx context.Context, every time.Duration, fn Func, opts ...Option) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = Run(ctx, every, fn, opts...)
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
		<-done
	}
}
