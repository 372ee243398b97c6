package views

import (
	"context"
	"time"

	"github.com/vango-go/fetchview/pkg/features/interval"
	"github.com/vango-go/fetchview/pkg/vango"
	"github.com/vango-go/fetchview/pkg/vdom"
)

// TimerView shows how many times it has re-rendered, advancing once per
// period until it reaches its maximum.
type TimerView struct {
	counter *interval.Counter
	owner   *vango.Owner
}

// NewTimerView creates a stopped timer. max == 0 runs until Close.
func NewTimerView(every time.Duration, max int) *TimerView {
	t := &TimerView{
		counter: interval.NewCounter(every, max),
		owner:   vango.NewOwner(nil),
	}
	t.owner.OnCleanup(t.counter.Stop)
	return t
}

// Start begins ticking.
func (t *TimerView) Start(ctx context.Context) error {
	return t.counter.Start(ctx)
}

// Count returns the current count.
func (t *TimerView) Count() int { return t.counter.Value() }

// Done is closed when the timer stops ticking.
func (t *TimerView) Done() <-chan struct{} { return t.counter.Done() }

// Render renders the current count.
func (t *TimerView) Render() *vdom.VNode {
	return RenderTimer(t.counter.Value())
}

// OnRender registers fn to receive a render after every tick.
func (t *TimerView) OnRender(fn func(node *vdom.VNode)) func() {
	unsub := t.counter.Subscribe(vango.ListenerFunc(func() {
		fn(t.Render())
	}))
	t.owner.OnCleanup(unsub)
	return unsub
}

// Close stops the timer and removes every render sink.
func (t *TimerView) Close() {
	t.owner.Dispose()
}

// TimerFormat formats the timer's text for a count.
const TimerFormat = "I've rendered %d times!"

// RenderTimer renders count.
func RenderTimer(count int) *vdom.VNode {
	return vdom.H1(vdom.Textf(TimerFormat, count))
}
