package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/vango-go/fetchview/pkg/fetch"
	"github.com/vango-go/fetchview/pkg/vango"
)

// Fetcher retrieves the payload described by req.
type Fetcher[T any] func(ctx context.Context, req fetch.Request) (T, error)

// ErrAlreadyActive is returned by Activate when the resource is already
// active. A resource issues exactly one request per activation.
var ErrAlreadyActive error = activeError{}

// ErrNotActive is returned by Retry when the resource is not active.
var ErrNotActive = errors.New("resource: not active")

// ErrNotFailed is returned by Retry unless the current state is Failed.
var ErrNotFailed = errors.New("resource: retry is only allowed from the failed state")

type activeError struct{}

func (activeError) Error() string { return "resource: already active" }
func (activeError) Code() string  { return "E104" }

// Resource manages one asynchronous fetch per activation and its state.
type Resource[T any] struct {
	id      string
	name    string
	fetcher Fetcher[T]
	state   *vango.Signal[ViewState[T]]

	logger    *slog.Logger
	observer  Observer
	onSuccess []func(T)
	onFailure []func(error)

	// mu guards the lifecycle fields below and is held across state writes,
	// so a generation check and the write it guards are atomic.
	mu         sync.Mutex
	generation uint64
	active     bool
	inFlight   bool
	cancel     context.CancelFunc
	done       chan struct{}
	lastReq    fetch.Request
}

// New creates an inactive Resource in the Loading state.
// No request is made until Activate is called.
func New[T any](fetcher Fetcher[T], opts ...Option) *Resource[T] {
	cfg := config{
		name:     "resource",
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	id := xid.New().String()
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default().With("component", "resource")
	}

	done := make(chan struct{})
	close(done)

	onSuccess := make([]func(T), 0, len(cfg.onSuccess))
	for _, v := range cfg.onSuccess {
		fn, ok := v.(func(T))
		if !ok {
			panic(fmt.Sprintf("resource: OnSuccess callback %T does not accept %s", v, reflect.TypeOf((*T)(nil)).Elem()))
		}
		onSuccess = append(onSuccess, fn)
	}

	return &Resource[T]{
		id:        id,
		name:      cfg.name,
		fetcher:   fetcher,
		state:     vango.NewSignal(LoadingState[T]()).WithEquals(sameState[T]),
		logger:    logger.With("resource", cfg.name, "view_id", id),
		observer:  cfg.observer,
		onSuccess: onSuccess,
		onFailure: cfg.onFailure,
		done:      done,
	}
}

// ID returns the unique instance identifier.
func (r *Resource[T]) ID() string { return r.id }

// Name returns the resource name.
func (r *Resource[T]) Name() string { return r.name }

// State returns a snapshot of the current view state.
func (r *Resource[T]) State() ViewState[T] {
	return r.state.Get()
}

// IsActive reports whether the resource is between Activate and Deactivate.
func (r *Resource[T]) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Done returns a channel that is closed once the current attempt has settled
// or been discarded. Before the first activation it is already closed.
func (r *Resource[T]) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Subscribe registers l to be notified on every state transition.
func (r *Resource[T]) Subscribe(l vango.Listener) func() {
	return r.state.Subscribe(l)
}

// Activate starts the one fetch permitted for this activation.
//
// An invalid request moves the resource straight to Failed without any
// network call and the validation error is returned. Calling Activate on an
// active resource returns ErrAlreadyActive and changes nothing.
func (r *Resource[T]) Activate(ctx context.Context, req fetch.Request) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return ErrAlreadyActive
	}
	r.active = true
	r.mu.Unlock()

	r.observer.Activated(r.name)
	return r.start(ctx, req, false)
}

// Retry issues a new attempt with the last request. It is only valid while
// active and in the Failed state. Of several concurrent calls at most one
// starts an attempt; the others get ErrNotFailed.
func (r *Resource[T]) Retry(ctx context.Context) error {
	return r.start(ctx, fetch.Request{}, true)
}

// start begins a new attempt: it validates, bumps the generation, enters
// Loading and launches the fetch. With retry set the attempt reuses the last
// request and only proceeds from a settled Failed state; that check and the
// transition to Loading happen under one lock.
func (r *Resource[T]) start(ctx context.Context, req fetch.Request, retry bool) error {
	r.mu.Lock()
	switch {
	case !r.active:
		r.mu.Unlock()
		return ErrNotActive
	case retry && (r.inFlight || r.state.Peek().State() != Failed):
		r.mu.Unlock()
		return ErrNotFailed
	}
	if retry {
		req = r.lastReq
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.generation++
	gen := r.generation
	r.lastReq = req
	done := make(chan struct{})
	r.done = done

	if err := req.Validate(); err != nil {
		from := r.state.Peek().State()
		r.state.Set(FailedState[T](err))
		close(done)
		r.mu.Unlock()

		r.afterFailure(from, err)
		return err
	}

	fctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.inFlight = true
	from := r.state.Peek().State()
	r.state.Set(LoadingState[T]())
	r.mu.Unlock()

	if from != Loading {
		r.observer.Transitioned(r.name, from, Loading)
	}

	go r.run(fctx, gen, req, done)
	return nil
}

// run performs the fetch on its own goroutine.
func (r *Resource[T]) run(ctx context.Context, gen uint64, req fetch.Request, done chan struct{}) {
	defer close(done)

	start := time.Now()
	data, err := r.fetcher(ctx, req)
	elapsed := time.Since(start)

	r.mu.Lock()
	if gen != r.generation || !r.active {
		r.mu.Unlock()
		r.logger.Debug("discarding late completion",
			"generation", gen,
			"duration", elapsed,
			"error", err,
		)
		r.observer.Discarded(r.name)
		return
	}

	r.inFlight = false
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	from := r.state.Peek().State()
	if err != nil {
		r.state.Set(FailedState[T](err))
	} else {
		r.state.Set(ReadyState(data))
	}
	r.mu.Unlock()

	if err != nil {
		r.afterFailure(from, err)
		return
	}

	r.logger.Debug("resource ready", "duration", elapsed)
	r.observer.Transitioned(r.name, from, Ready)
	for _, fn := range r.onSuccess {
		fn(data)
	}
}

// afterFailure reports a transition to Failed. The cause always reaches the
// diagnostic log.
func (r *Resource[T]) afterFailure(from State, err error) {
	r.logger.Warn("resource failed",
		"kind", fetch.Kind(err),
		"error", err,
	)
	r.observer.Transitioned(r.name, from, Failed)
	for _, fn := range r.onFailure {
		fn(err)
	}
}

// Deactivate ends the activation. An in-flight request is cancelled and its
// eventual completion is discarded. Deactivating an inactive resource is a
// no-op.
func (r *Resource[T]) Deactivate() {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	r.active = false
	r.generation++
	r.inFlight = false
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.observer.Deactivated(r.name)
}
