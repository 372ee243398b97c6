package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type profile struct {
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestGetJSONSuccess(t *testing.T) {
	var gotUA, gotAccept, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotPath = r.URL.Path
		w.Write([]byte(`{"name":"The Octocat","bio":"hi","avatar_url":"https://a/1.png"}`))
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("fetchview-test"))
	var p profile
	err := c.GetJSON(context.Background(), NewRequest("profile", srv.URL, "/users/{id}", WithIdentifier("octocat")), &p)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}

	want := profile{Name: "The Octocat", Bio: "hi", AvatarURL: "https://a/1.png"}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
	if gotUA != "fetchview-test" || gotAccept != "application/json" || gotPath != "/users/octocat" {
		t.Errorf("headers/path = %q %q %q", gotUA, gotAccept, gotPath)
	}
}

func TestGetJSONFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		message string
	}{
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    `{"name":"ignored"}`,
			check:   func(err error) bool { var e *HTTPError; return errors.As(err, &e) && e.StatusCode == 404 },
			message: MessageHTTP,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    "oops",
			check:   func(err error) bool { var e *HTTPError; return errors.As(err, &e) },
			message: MessageHTTP,
		},
		{
			name:   "invalid json",
			status: http.StatusOK,
			body:   "<html>not json</html>",
			check:  func(err error) bool { var e *DecodeError; return errors.As(err, &e) },
		},
		{
			name:   "empty body",
			status: http.StatusOK,
			body:   "",
			check:  func(err error) bool { var e *DecodeError; return errors.As(err, &e) },
		},
		{
			name:   "null body",
			status: http.StatusOK,
			body:   " null\n",
			check: func(err error) bool {
				var e *DecodeError
				return errors.As(err, &e) && e.Err.Error() == "null body"
			},
		},
		{
			name:   "whitespace body",
			status: http.StatusOK,
			body:   "  \n",
			check:  func(err error) bool { var e *DecodeError; return errors.As(err, &e) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			var p profile
			err := NewClient().GetJSON(context.Background(), NewRequest("p", srv.URL, "/x"), &p)
			if !tt.check(err) {
				t.Fatalf("unexpected error type: %T %v", err, err)
			}
			if tt.message != "" && UserMessage(err) != tt.message {
				t.Errorf("UserMessage = %q, want %q", UserMessage(err), tt.message)
			}
			if tt.message == "" && !strings.HasPrefix(UserMessage(err), MessageDecode) {
				t.Errorf("UserMessage = %q, want decode message", UserMessage(err))
			}
		})
	}
}

func TestGetJSONInvalidRequestSendsNothing(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{}`)
	var p profile
	err := NewClient().GetJSON(context.Background(), NewRequest("p", srv.URL, "/users/{id}"), &p)

	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidRequestError, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no outbound call, got %d", calls.Load())
	}
}

func TestGetJSONTransportError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	base := srv.URL
	srv.Close()

	var p profile
	err := NewClient().GetJSON(context.Background(),
		NewRequest("apod", base, "/apod", WithAPIKey("api_key", "s3cret")), &p)

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected *TransportError, got %T %v", err, err)
	}
	if strings.Contains(err.Error(), "s3cret") {
		t.Errorf("error leaked API key: %v", err)
	}
	if UserMessage(err) != MessageTransport {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
}

func TestGetJSONContextCanceled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var p profile
	err := NewClient().GetJSON(ctx, NewRequest("p", srv.URL, "/slow"), &p)
	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded in chain, got %v", err)
	}
}

func TestGetJSONBodyLimit(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"name":"`+strings.Repeat("x", 64)+`"}`)
	var p profile
	err := NewClient(WithMaxBodyBytes(16)).GetJSON(context.Background(), NewRequest("p", srv.URL, "/x"), &p)
	var decode *DecodeError
	if !errors.As(err, &decode) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}

func TestJSONFetcher(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{"name":"n"}`)
	fetcher := JSON[profile](NewClient())

	p, err := fetcher(context.Background(), NewRequest("p", srv.URL, "/x"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "n" || calls.Load() != 1 {
		t.Errorf("got %+v after %d calls", p, calls.Load())
	}
}

func TestKindAndCodes(t *testing.T) {
	tests := []struct {
		err  error
		kind string
		code string
	}{
		{&InvalidRequestError{}, "invalid_request", "E100"},
		{&TransportError{Err: errors.New("x")}, "transport", "E101"},
		{&HTTPError{StatusCode: 404}, "http", "E102"},
		{&DecodeError{Err: errors.New("x")}, "decode", "E103"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.kind {
			t.Errorf("Kind(%T) = %q, want %q", tt.err, got, tt.kind)
		}
		coder, ok := tt.err.(interface{ Code() string })
		if !ok || coder.Code() != tt.code {
			t.Errorf("%T code mismatch, want %s", tt.err, tt.code)
		}
	}
	if Kind(nil) != "none" || Kind(errors.New("x")) != "other" {
		t.Error("Kind fallback values wrong")
	}
}
