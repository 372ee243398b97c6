// Package interval runs a recurring action with an explicit period and exit
// condition.
//
// Run blocks until the action asks to stop, the context ends, or Stop is
// called on the handle returned by Start:
//
//	stop := interval.Start(ctx, time.Second, func(tick int) bool {
//	    count.Set(tick)
//	    return tick < 10
//	})
//	defer stop()
//
// Counter ties a ticking signal to a maximum value. A zero Max means the
// counter runs until its context is cancelled.
package interval
