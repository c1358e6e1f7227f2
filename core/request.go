package core

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ApiRequest describes one call to the API. It is built per call and never reused.
type ApiRequest struct {
	Method string
	// Path is relative to the configured base URL ("/users/{id}") or an absolute URL.
	Path string
	// Payload is sent as query parameters for GET/DELETE and as a JSON body otherwise.
	Payload Params
	// Query holds extra query values such as pagination; it is merged for every verb.
	Query url.Values
	// IdempotencyKey is sent in X-SP-IDEMPOTENCY-KEY only when non-empty.
	IdempotencyKey string
	// Session authorizes a user-scoped call. When set its OAuthKey must be non-empty.
	Session *SessionContext
	// Fingerprint is sent on calls that are not user-scoped but identify a device,
	// such as user creation and authentication. Ignored when Session is set.
	Fingerprint string
	// Anonymous requests carry neither gateway nor user headers.
	Anonymous bool
}

// NewApiRequest creates a request for the given verb and path.
func NewApiRequest(method, path string) *ApiRequest {
	return &ApiRequest{Method: strings.ToUpper(method), Path: path}
}

// WithPayload attaches the payload.
func (r *ApiRequest) WithPayload(payload Params) *ApiRequest {
	r.Payload = payload
	return r
}

// WithQuery merges extra query values.
func (r *ApiRequest) WithQuery(values url.Values) *ApiRequest {
	if len(values) == 0 {
		return r
	}
	if r.Query == nil {
		r.Query = url.Values{}
	}
	for k, vs := range values {
		for _, v := range vs {
			r.Query.Add(k, v)
		}
	}
	return r
}

// WithSession scopes the request to a user. Panics on an invalid context.
func (r *ApiRequest) WithSession(sc SessionContext) *ApiRequest {
	sc.MustValid()
	r.Session = &sc
	return r
}

// WithFingerprint sets the device fingerprint of an unscoped request.
func (r *ApiRequest) WithFingerprint(fingerprint string) *ApiRequest {
	r.Fingerprint = fingerprint
	return r
}

// WithIdempotencyKey sets the idempotency key. An empty key leaves the header out.
func (r *ApiRequest) WithIdempotencyKey(key string) *ApiRequest {
	r.IdempotencyKey = key
	return r
}

// PayloadInQuery reports whether the payload travels as query parameters for this verb.
func (r *ApiRequest) PayloadInQuery() bool {
	switch r.Method {
	case http.MethodGet, http.MethodDelete, http.MethodHead:
		return true
	}
	return false
}

// QueryValues returns the final query values: payload fields (for GET/DELETE) plus Query.
func (r *ApiRequest) QueryValues() url.Values {
	values := url.Values{}
	if r.PayloadInQuery() && r.Payload != nil {
		for k, vs := range r.Payload.ToQuery() {
			values[k] = vs
		}
	}
	for k, vs := range r.Query {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	return values
}

// HasBody reports whether the payload travels as a JSON body.
func (r *ApiRequest) HasBody() bool {
	return !r.PayloadInQuery() && r.Payload != nil
}

// ResolveURL joins the request path to base and appends the query string.
func (r *ApiRequest) ResolveURL(base string) (string, error) {
	var target *url.URL
	parsed, err := url.Parse(r.Path)
	if err == nil && parsed.Scheme != "" {
		target = parsed
	} else {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("invalid base url %q: %w", base, err)
		}
		path := r.Path
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		rel, err := url.Parse(path)
		if err != nil {
			return "", fmt.Errorf("invalid relative URL: %w", err)
		}
		target = baseURL.JoinPath(rel.Path)
		target.RawQuery = rel.RawQuery
	}
	query := target.Query()
	for k, vs := range r.QueryValues() {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	target.RawQuery = query.Encode()
	return target.String(), nil
}
