package resource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vango-go/fetchview/pkg/fetch"
	"github.com/vango-go/fetchview/pkg/vdom"
)

type profile struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

type recordingObserver struct {
	mu          sync.Mutex
	activated   int
	deactivated int
	discarded   int
	transitions []State
}

func (o *recordingObserver) Activated(string) {
	o.mu.Lock()
	o.activated++
	o.mu.Unlock()
}

func (o *recordingObserver) Deactivated(string) {
	o.mu.Lock()
	o.deactivated++
	o.mu.Unlock()
}

func (o *recordingObserver) Transitioned(_ string, _, to State) {
	o.mu.Lock()
	o.transitions = append(o.transitions, to)
	o.mu.Unlock()
}

func (o *recordingObserver) Discarded(string) {
	o.mu.Lock()
	o.discarded++
	o.mu.Unlock()
}

func waitSettled[T any](t *testing.T, r *Resource[T]) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for resource to settle")
	}
}

// textOf returns the concatenated text of node and its descendants.
func textOf(node *vdom.VNode) string {
	if node == nil {
		return ""
	}
	if node.Kind == vdom.KindText || node.Kind == vdom.KindRaw {
		return node.Text
	}
	var sb strings.Builder
	for _, child := range node.Children {
		sb.WriteString(textOf(child))
	}
	return sb.String()
}

func profileRequest(baseURL, username string) fetch.Request {
	return fetch.NewRequest("profile", baseURL, "/users/{id}", fetch.WithIdentifier(username))
}

func profileView(client *fetch.Client) *View[profile] {
	res := New(fetch.JSON[profile](client), WithName("profile"))
	return NewView(res,
		OnLoading[profile](func() *vdom.VNode {
			return vdom.H1(vdom.Text("Profile loading.....please wait"))
		}),
		OnReady(func(p profile) *vdom.VNode {
			return vdom.Div(
				vdom.H1(vdom.Text(p.Name)),
				vdom.Img(vdom.Src(p.AvatarURL)),
				vdom.H2(vdom.Text(p.Bio)),
			)
		}),
	)
}

func TestZeroStateIsLoading(t *testing.T) {
	var vs ViewState[string]
	if vs.State() != Loading {
		t.Errorf("Expected zero ViewState to be Loading, got %s", vs.State())
	}

	r := New(func(context.Context, fetch.Request) (string, error) { return "", nil })
	if r.State().State() != Loading {
		t.Errorf("Expected new resource to be Loading, got %s", r.State().State())
	}
	if r.IsActive() {
		t.Error("Expected new resource to be inactive")
	}
	select {
	case <-r.Done():
	default:
		t.Error("Expected Done to be closed before first activation")
	}
}

func TestStateAccessors(t *testing.T) {
	ready := ReadyState("data")
	if d, ok := ready.Data(); !ok || d != "data" {
		t.Errorf("Expected Data() = (data, true), got (%q, %v)", d, ok)
	}
	if ready.Err() != nil || ready.Message() != "" {
		t.Error("Expected Ready to carry no error")
	}

	failed := FailedState[string](&fetch.HTTPError{URL: "u", StatusCode: 500})
	if _, ok := failed.Data(); ok {
		t.Error("Expected Failed to carry no data")
	}
	if failed.Message() != fetch.MessageHTTP {
		t.Errorf("Expected %q, got %q", fetch.MessageHTTP, failed.Message())
	}
}

func TestActivateReady(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/users/octocat" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"The Octocat","bio":"","avatar_url":"https://x/y.png"}`))
	}))
	defer srv.Close()

	view := profileView(fetch.NewClient())
	defer view.Close()

	var renders []State
	var mu sync.Mutex
	view.OnRender(func(s State, _ *vdom.VNode) {
		mu.Lock()
		renders = append(renders, s)
		mu.Unlock()
	})

	if got := textOf(view.Render()); got != "Profile loading.....please wait" {
		t.Errorf("Unexpected loading render %q", got)
	}

	if err := view.Activate(context.Background(), profileRequest(srv.URL, "octocat")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	waitSettled(t, view.Resource())

	p, ok := view.State().Data()
	if !ok {
		t.Fatalf("Expected Ready, got %s (%v)", view.State().State(), view.State().Err())
	}
	if p.Name != "The Octocat" || p.Bio != "" || p.AvatarURL != "https://x/y.png" {
		t.Errorf("Unexpected profile %+v", p)
	}
	if got := textOf(view.Render()); got != "The Octocat" {
		t.Errorf("Expected rendered name, got %q", got)
	}

	if calls.Load() != 1 {
		t.Errorf("Expected exactly 1 request, got %d", calls.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(renders) != 1 || renders[0] != Ready {
		t.Errorf("Expected exactly one Ready render, got %v", renders)
	}
}

func TestActivateNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	var failures atomic.Int32
	res := New(fetch.JSON[profile](fetch.NewClient()), OnFailure(func(error) { failures.Add(1) }))
	view := NewView(res)
	defer view.Close()

	if err := view.Activate(context.Background(), profileRequest(srv.URL, "no-such-user-xyz")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	waitSettled(t, res)

	vs := res.State()
	if vs.State() != Failed {
		t.Fatalf("Expected Failed, got %s", vs.State())
	}
	var httpErr *fetch.HTTPError
	if !errors.As(vs.Err(), &httpErr) || httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected HTTPError 404, got %v", vs.Err())
	}
	if vs.Message() != "Network response was not ok" {
		t.Errorf("Unexpected message %q", vs.Message())
	}
	if got := textOf(view.Render()); got != "Network response was not ok" {
		t.Errorf("Unexpected failed render %q", got)
	}
	if failures.Load() != 1 {
		t.Errorf("Expected OnFailure once, got %d", failures.Load())
	}
}

func TestActivateMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title": "Pillars`))
	}))
	defer srv.Close()

	res := New(fetch.JSON[profile](fetch.NewClient()))
	if err := res.Activate(context.Background(), profileRequest(srv.URL, "octocat")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	defer res.Deactivate()
	waitSettled(t, res)

	vs := res.State()
	var decodeErr *fetch.DecodeError
	if !errors.As(vs.Err(), &decodeErr) {
		t.Fatalf("Expected DecodeError, got %v", vs.Err())
	}
	if _, ok := vs.Data(); ok {
		t.Error("Expected no data after decode failure")
	}
}

func TestDeactivateDiscardsLateCompletion(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetcher := func(ctx context.Context, req fetch.Request) (string, error) {
		close(started)
		<-release
		return "late", nil
	}

	obs := &recordingObserver{}
	res := New(fetcher, WithObserver(obs))
	view := NewView(res, OnReady(func(s string) *vdom.VNode { return vdom.Text(s) }))

	var renders atomic.Int32
	view.OnRender(func(State, *vdom.VNode) { renders.Add(1) })

	req := fetch.NewRequest("slow", "http://example.invalid", "/")
	if err := view.Activate(context.Background(), req); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	<-started
	done := res.Done()

	view.Deactivate()
	close(release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for discarded completion")
	}

	if res.State().State() != Loading {
		t.Errorf("Expected state to stay Loading, got %s", res.State().State())
	}
	if renders.Load() != 0 {
		t.Errorf("Expected no renders, got %d", renders.Load())
	}

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.discarded != 1 {
		t.Errorf("Expected 1 discarded completion, got %d", obs.discarded)
	}
	if obs.activated != 1 || obs.deactivated != 1 {
		t.Errorf("Expected 1 activation and 1 deactivation, got %d/%d", obs.activated, obs.deactivated)
	}
	if len(obs.transitions) != 0 {
		t.Errorf("Expected no transitions, got %v", obs.transitions)
	}
}

func TestDeactivateCancelsContext(t *testing.T) {
	cancelled := make(chan struct{})
	fetcher := func(ctx context.Context, req fetch.Request) (string, error) {
		<-ctx.Done()
		close(cancelled)
		return "", ctx.Err()
	}

	res := New(fetcher)
	if err := res.Activate(context.Background(), fetch.NewRequest("x", "http://example.invalid", "/")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	res.Deactivate()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("Expected fetch context to be cancelled")
	}
	waitSettled(t, res)
	if res.State().State() != Loading {
		t.Errorf("Expected Loading after cancelled fetch, got %s", res.State().State())
	}
}

func TestInvalidRequestShortCircuits(t *testing.T) {
	var calls atomic.Int32
	fetcher := func(ctx context.Context, req fetch.Request) (profile, error) {
		calls.Add(1)
		return profile{}, nil
	}

	res := New(fetcher)
	view := NewView(res)
	defer view.Close()

	var renders atomic.Int32
	view.OnRender(func(State, *vdom.VNode) { renders.Add(1) })

	err := view.Activate(context.Background(), profileRequest("https://api.github.com", "  "))
	var invalid *fetch.InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidRequestError, got %v", err)
	}

	// No waiting: the transition must already have happened.
	if res.State().State() != Failed {
		t.Errorf("Expected Failed immediately, got %s", res.State().State())
	}
	if !errors.As(res.State().Err(), &invalid) {
		t.Errorf("Expected state error to be InvalidRequestError, got %v", res.State().Err())
	}
	if calls.Load() != 0 {
		t.Errorf("Expected no fetch, got %d", calls.Load())
	}
	if renders.Load() != 1 {
		t.Errorf("Expected exactly one render, got %d", renders.Load())
	}
}

func TestActivateTwice(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	fetcher := func(ctx context.Context, req fetch.Request) (string, error) {
		calls.Add(1)
		<-release
		return "ok", nil
	}

	res := New(fetcher)
	defer res.Deactivate()
	req := fetch.NewRequest("x", "http://example.invalid", "/")

	if err := res.Activate(context.Background(), req); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	err := res.Activate(context.Background(), req)
	if !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("Expected ErrAlreadyActive, got %v", err)
	}
	close(release)
	waitSettled(t, res)

	if err := res.Activate(context.Background(), req); !errors.Is(err, ErrAlreadyActive) {
		t.Errorf("Expected ErrAlreadyActive after settle, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected exactly 1 fetch, got %d", calls.Load())
	}
}

func TestReactivateAfterDeactivate(t *testing.T) {
	var calls atomic.Int32
	fetcher := func(ctx context.Context, req fetch.Request) (int32, error) {
		return calls.Add(1), nil
	}

	res := New(fetcher)
	req := fetch.NewRequest("x", "http://example.invalid", "/")

	for i := int32(1); i <= 2; i++ {
		if err := res.Activate(context.Background(), req); err != nil {
			t.Fatalf("Activate %d: %v", i, err)
		}
		waitSettled(t, res)
		if n, _ := res.State().Data(); n != i {
			t.Errorf("Activation %d: expected data %d, got %d", i, i, n)
		}
		res.Deactivate()
	}
}

func TestRetry(t *testing.T) {
	var calls atomic.Int32
	fetcher := func(ctx context.Context, req fetch.Request) (string, error) {
		if calls.Add(1) == 1 {
			return "", &fetch.TransportError{URL: req.URL(), Err: errors.New("connection refused")}
		}
		return "second", nil
	}

	res := New(fetcher)
	defer res.Deactivate()

	if err := res.Retry(context.Background()); !errors.Is(err, ErrNotActive) {
		t.Errorf("Expected ErrNotActive before activation, got %v", err)
	}

	if err := res.Activate(context.Background(), fetch.NewRequest("x", "http://example.invalid", "/")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	waitSettled(t, res)
	if res.State().Message() != fetch.MessageTransport {
		t.Fatalf("Expected transport failure, got %q", res.State().Message())
	}

	if err := res.Retry(context.Background()); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	waitSettled(t, res)
	if d, ok := res.State().Data(); !ok || d != "second" {
		t.Errorf("Expected Ready(second), got %s", res.State().State())
	}

	if err := res.Retry(context.Background()); !errors.Is(err, ErrNotFailed) {
		t.Errorf("Expected ErrNotFailed from Ready, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 fetches, got %d", calls.Load())
	}
}

func TestConcurrentRetryStartsOneAttempt(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	fetcher := func(ctx context.Context, req fetch.Request) (string, error) {
		if calls.Add(1) == 1 {
			return "", &fetch.TransportError{URL: req.URL(), Err: errors.New("connection reset")}
		}
		<-release
		return "recovered", nil
	}

	res := New(fetcher)
	defer res.Deactivate()
	if err := res.Activate(context.Background(), fetch.NewRequest("x", "http://example.invalid", "/")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	waitSettled(t, res)
	if res.State().State() != Failed {
		t.Fatalf("Expected Failed, got %s", res.State().State())
	}

	const callers = 16
	var (
		wg       sync.WaitGroup
		gate     = make(chan struct{})
		started  atomic.Int32
		rejected atomic.Int32
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-gate
			switch err := res.Retry(context.Background()); {
			case err == nil:
				started.Add(1)
			case errors.Is(err, ErrNotFailed):
				rejected.Add(1)
			default:
				t.Errorf("Unexpected Retry error %v", err)
			}
		}()
	}
	close(gate)
	wg.Wait()
	close(release)
	waitSettled(t, res)

	if started.Load() != 1 || rejected.Load() != callers-1 {
		t.Errorf("Expected 1 started and %d rejected, got %d/%d", callers-1, started.Load(), rejected.Load())
	}
	if calls.Load() != 2 {
		t.Errorf("Expected exactly 2 fetches, got %d", calls.Load())
	}
	if d, ok := res.State().Data(); !ok || d != "recovered" {
		t.Errorf("Expected Ready(recovered), got %s", res.State().State())
	}
}

func TestReactivateAfterReadyWithFailingUpstream(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) > 1 {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"The Octocat","bio":"Mascot","avatar_url":"https://x/y.png"}`))
	}))
	defer srv.Close()

	view := profileView(fetch.NewClient())
	defer view.Close()
	req := profileRequest(srv.URL, "octocat")

	if err := view.Activate(context.Background(), req); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	waitSettled(t, view.Resource())
	if _, ok := view.State().Data(); !ok {
		t.Fatalf("Expected Ready, got %s", view.State().State())
	}

	view.Deactivate()
	if err := view.Activate(context.Background(), req); err != nil {
		t.Fatalf("second Activate: %v", err)
	}
	waitSettled(t, view.Resource())

	vs := view.State()
	if vs.State() != Failed {
		t.Fatalf("Expected Failed, got %s", vs.State())
	}
	if p, ok := vs.Data(); ok {
		t.Errorf("Expected no data after failed reactivation, got %+v", p)
	}

	node := view.Render()
	if got := textOf(node); got != fetch.MessageHTTP {
		t.Errorf("Expected only the failure message, got %q", got)
	}
	for _, stale := range []string{"The Octocat", "Mascot", "https://x/y.png"} {
		if nodeMentions(node, stale) {
			t.Errorf("Failed render still carries %q", stale)
		}
	}
}

// nodeMentions reports whether s appears in any text or attribute of node.
func nodeMentions(node *vdom.VNode, s string) bool {
	if node == nil {
		return false
	}
	if strings.Contains(node.Text, s) {
		return true
	}
	for _, v := range node.Props {
		if str, ok := v.(string); ok && strings.Contains(str, s) {
			return true
		}
	}
	for _, child := range node.Children {
		if nodeMentions(child, s) {
			return true
		}
	}
	return false
}

func TestOnSuccessReceivesNilPayload(t *testing.T) {
	var called atomic.Bool
	res := New(
		func(context.Context, fetch.Request) (*profile, error) { return nil, nil },
		OnSuccess(func(p *profile) {
			if p != nil {
				t.Errorf("Expected nil payload, got %+v", p)
			}
			called.Store(true)
		}),
	)
	defer res.Deactivate()

	if err := res.Activate(context.Background(), fetch.NewRequest("x", "http://example.invalid", "/")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	waitSettled(t, res)
	if !called.Load() {
		t.Error("Expected OnSuccess to run for a nil payload")
	}
}

func TestOnSuccessTypeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected New to panic on a mismatched OnSuccess callback")
		}
	}()
	New(
		func(context.Context, fetch.Request) (string, error) { return "", nil },
		OnSuccess(func(int) {}),
	)
}

func TestRenderIdempotent(t *testing.T) {
	res := New(func(context.Context, fetch.Request) (string, error) { return "hello", nil })
	view := NewView(res, OnReady(func(s string) *vdom.VNode {
		return vdom.Div(vdom.Class("greeting"), vdom.Text(s))
	}))
	defer view.Close()

	if err := view.Activate(context.Background(), fetch.NewRequest("x", "http://example.invalid", "/")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	waitSettled(t, res)

	a := textOf(view.Render())
	b := textOf(view.Render())
	if a != b || a != "hello" {
		t.Errorf("Expected identical renders, got %q and %q", a, b)
	}
}

func TestCloseRemovesSinks(t *testing.T) {
	release := make(chan struct{})
	res := New(func(context.Context, fetch.Request) (string, error) {
		<-release
		return "x", nil
	})
	view := NewView(res)

	var renders atomic.Int32
	view.OnRender(func(State, *vdom.VNode) { renders.Add(1) })
	if err := view.Activate(context.Background(), fetch.NewRequest("x", "http://example.invalid", "/")); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	done := res.Done()

	view.Close()
	close(release)
	<-done

	if res.IsActive() {
		t.Error("Expected Close to deactivate the resource")
	}
	if renders.Load() != 0 {
		t.Errorf("Expected no renders after Close, got %d", renders.Load())
	}
	if n := res.state.SubscriberCount(); n != 0 {
		t.Errorf("Expected 0 subscribers after Close, got %d", n)
	}
}

func TestAlreadyActiveCode(t *testing.T) {
	coder, ok := ErrAlreadyActive.(interface{ Code() string })
	if !ok || coder.Code() != "E104" {
		t.Errorf("Expected ErrAlreadyActive to carry code E104")
	}
}

func TestMatchNoHandler(t *testing.T) {
	if node := Match(ReadyState(1)); node != nil {
		t.Errorf("Expected nil without handlers, got %v", node)
	}
	view := NewView(New(func(context.Context, fetch.Request) (int, error) { return 0, nil }))
	if node := view.RenderState(ReadyState(1)); node == nil || node.Kind != vdom.KindFragment {
		t.Errorf("Expected empty fragment for unhandled Ready state")
	}
}
