package fetch

import (
	"net/url"
	"strings"
)

// IdentifierPlaceholder marks where the identifier is substituted in a path.
const IdentifierPlaceholder = "{id}"

// Request is an immutable description of an outbound GET.
// The zero value is not valid; use NewRequest.
type Request struct {
	name       string
	baseURL    string
	path       string
	identifier string
	query      url.Values
	apiKeyName string
	apiKey     string
	hasAPIKey  bool
}

// RequestOption configures a Request at construction time.
type RequestOption func(*Request)

// WithIdentifier sets the value substituted for {id} in the path.
func WithIdentifier(id string) RequestOption {
	return func(r *Request) {
		r.identifier = id
	}
}

// WithAPIKey adds a secret key as the query parameter param.
func WithAPIKey(param, key string) RequestOption {
	return func(r *Request) {
		r.apiKeyName = param
		r.apiKey = key
		r.hasAPIKey = true
	}
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		r.query.Add(key, value)
	}
}

// NewRequest creates a Request named name (used in logs and metrics) that
// targets baseURL joined with path.
func NewRequest(name, baseURL, path string, opts ...RequestOption) Request {
	r := Request{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		path:    path,
		query:   url.Values{},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Name returns the request name.
func (r Request) Name() string { return r.name }

// Identifier returns the identifier substituted into the path.
func (r Request) Identifier() string { return r.identifier }

// HasIdentifier reports whether the path contains an identifier slot.
func (r Request) HasIdentifier() bool {
	return strings.Contains(r.path, IdentifierPlaceholder)
}

// Validate reports whether the request may be sent.
func (r Request) Validate() error {
	u, err := url.Parse(r.baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &InvalidRequestError{Request: r.name, Field: "base URL", Reason: "must be an absolute http(s) URL"}
	}
	if r.HasIdentifier() && strings.TrimSpace(r.identifier) == "" {
		return &InvalidRequestError{Request: r.name, Field: "identifier", Reason: "must not be empty"}
	}
	if r.hasAPIKey && (r.apiKeyName == "" || strings.TrimSpace(r.apiKey) == "") {
		return &InvalidRequestError{Request: r.name, Field: "api key", Reason: "must not be empty"}
	}
	return nil
}

// URL returns the full target URL, including the API key if present.
func (r Request) URL() string {
	return r.buildURL(r.apiKey)
}

// RedactedURL returns the target URL with the API key masked, for logs.
func (r Request) RedactedURL() string {
	if !r.hasAPIKey {
		return r.URL()
	}
	return r.buildURL("REDACTED")
}

func (r Request) buildURL(key string) string {
	path := strings.ReplaceAll(r.path, IdentifierPlaceholder, url.PathEscape(r.identifier))
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	q := url.Values{}
	for k, vs := range r.query {
		q[k] = append([]string(nil), vs...)
	}
	if r.hasAPIKey {
		q.Set(r.apiKeyName, key)
	}

	target := r.baseURL + path
	if encoded := q.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}
