package interval

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vango-go/fetchview/pkg/vango"
)

func TestRunStopsWhenFuncReturnsFalse(t *testing.T) {
	var ticks []int
	err := Run(context.Background(), time.Millisecond, func(tick int) bool {
		ticks = append(ticks, tick)
		return tick < 3
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ticks) != 3 || ticks[0] != 1 || ticks[2] != 3 {
		t.Errorf("Expected ticks [1 2 3], got %v", ticks)
	}
}

func TestRunImmediate(t *testing.T) {
	start := time.Now()
	err := Run(context.Background(), time.Hour, func(tick int) bool {
		return false
	}, Immediate())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Expected immediate first tick")
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := Run(ctx, time.Millisecond, func(int) bool { return true })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}

func TestRunInvalidPeriod(t *testing.T) {
	if err := Run(context.Background(), 0, func(int) bool { return true }); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("Expected ErrInvalidPeriod, got %v", err)
	}
}

func TestStartStop(t *testing.T) {
	var n atomic.Int32
	stop := Start(context.Background(), time.Millisecond, func(int) bool {
		n.Add(1)
		return true
	})

	time.Sleep(20 * time.Millisecond)
	stop()
	after := n.Load()
	time.Sleep(20 * time.Millisecond)

	if after == 0 {
		t.Error("Expected at least one tick before stop")
	}
	if n.Load() != after {
		t.Errorf("Expected no ticks after stop, got %d more", n.Load()-after)
	}
	stop()
}

func TestCounterReachesMax(t *testing.T) {
	c := NewCounter(time.Millisecond, 5)

	var changes atomic.Int32
	unsub := c.Subscribe(vango.ListenerFunc(func() { changes.Add(1) }))
	defer unsub()

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for counter to reach max")
	}

	if c.Value() != 5 {
		t.Errorf("Expected 5, got %d", c.Value())
	}
	if changes.Load() != 5 {
		t.Errorf("Expected 5 notifications, got %d", changes.Load())
	}

	// Already at max.
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-c.Done():
	default:
		t.Error("Expected counter at max not to restart")
	}
}

func TestCounterStop(t *testing.T) {
	c := NewCounter(time.Millisecond, 0)
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	c.Stop()

	v := c.Value()
	time.Sleep(10 * time.Millisecond)
	if c.Value() != v {
		t.Errorf("Expected counter to stay at %d after Stop, got %d", v, c.Value())
	}
	c.Stop()
}

func TestCounterInvalidPeriod(t *testing.T) {
	c := NewCounter(0, 1)
	if err := c.Start(context.Background()); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("Expected ErrInvalidPeriod, got %v", err)
	}
}
