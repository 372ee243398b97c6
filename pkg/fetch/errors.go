package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// InvalidRequestError reports a request rejected before any network call.
type InvalidRequestError struct {
	Request string // request name
	Field   string
	Reason  string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request %q: %s %s", e.Request, e.Field, e.Reason)
}

// Code returns the registry code for this error.
func (e *InvalidRequestError) Code() string { return "E100" }

// TransportError reports that a request could not be sent or that no
// response was received.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Code returns the registry code for this error.
func (e *TransportError) Code() string { return "E101" }

// HTTPError reports a response with a non-success status code.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Code returns the registry code for this error.
func (e *HTTPError) Code() string { return "E102" }

// DecodeError reports a response body that could not be parsed.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error for %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Code returns the registry code for this error.
func (e *DecodeError) Code() string { return "E103" }

// User-visible messages for each failure kind.
const (
	MessageHTTP      = "Network response was not ok"
	MessageTransport = "An error occurred while fetching the data"
	MessageDecode    = "The response could not be read"
	MessageInvalid   = "Invalid request"
)

// UserMessage maps err to the text displayed in place of a view's content.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		invalid   *InvalidRequestError
		httpErr   *HTTPError
		decode    *DecodeError
		transport *TransportError
	)
	switch {
	case errors.As(err, &invalid):
		return fmt.Sprintf("%s: %s %s", MessageInvalid, invalid.Field, invalid.Reason)
	case errors.As(err, &httpErr):
		return MessageHTTP
	case errors.As(err, &decode):
		return fmt.Sprintf("%s: %v", MessageDecode, decode.Err)
	case errors.As(err, &transport):
		return MessageTransport
	default:
		return err.Error()
	}
}

// Kind returns a short label for err, suitable as a metrics label.
func Kind(err error) string {
	var (
		invalid   *InvalidRequestError
		httpErr   *HTTPError
		decode    *DecodeError
		transport *TransportError
	)
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &invalid):
		return "invalid_request"
	case errors.As(err, &httpErr):
		return "http"
	case errors.As(err, &decode):
		return "decode"
	case errors.As(err, &transport):
		return "transport"
	default:
		return "other"
	}
}
