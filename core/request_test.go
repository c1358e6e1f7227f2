package core

import (
	"net/http"
	"net/url"
	"testing"
)

func TestApiRequest_ResolveURL(t *testing.T) {
	base := "https://sandbox.synapsepay.com/api/3"
	tests := []struct {
		name string
		req  *ApiRequest
		want string
	}{
		{
			name: "relative path",
			req:  NewApiRequest(http.MethodGet, "/users/u1"),
			want: "https://sandbox.synapsepay.com/api/3/users/u1",
		},
		{
			name: "relative path without slash",
			req:  NewApiRequest(http.MethodGet, "subscriptions"),
			want: "https://sandbox.synapsepay.com/api/3/subscriptions",
		},
		{
			name: "payload in query for GET",
			req:  NewApiRequest(http.MethodGet, "/users").WithPayload(Params{"query": "jo hn"}),
			want: "https://sandbox.synapsepay.com/api/3/users?query=jo+hn",
		},
		{
			name: "payload stays out of the query for POST",
			req:  NewApiRequest(http.MethodPost, "/users").WithPayload(Params{"query": "x"}),
			want: "https://sandbox.synapsepay.com/api/3/users",
		},
		{
			name: "extra query for POST",
			req:  NewApiRequest(http.MethodPost, "/users").WithQuery(url.Values{"page": {"1"}}),
			want: "https://sandbox.synapsepay.com/api/3/users?page=1",
		},
		{
			name: "absolute URL",
			req:  NewApiRequest(http.MethodGet, InstitutionsURL),
			want: "https://synapsepay.com/api/v3/institutions/show",
		},
		{
			name: "query embedded in path is kept",
			req:  NewApiRequest(http.MethodGet, "/users?page=2").WithQuery(url.Values{"per_page": {"5"}}),
			want: "https://sandbox.synapsepay.com/api/3/users?page=2&per_page=5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.ResolveURL(base)
			if err != nil {
				t.Fatalf("ResolveURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveURL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestApiRequest_Placement(t *testing.T) {
	for _, method := range []string{"get", "DELETE"} {
		req := NewApiRequest(method, "/x").WithPayload(Params{"a": 1})
		if !req.PayloadInQuery() || req.HasBody() {
			t.Errorf("%s must carry the payload in the query", method)
		}
	}
	for _, method := range []string{"post", "PATCH", "PUT"} {
		req := NewApiRequest(method, "/x").WithPayload(Params{"a": 1})
		if req.PayloadInQuery() || !req.HasBody() {
			t.Errorf("%s must carry the payload in the body", method)
		}
	}
	if NewApiRequest(http.MethodPost, "/x").HasBody() {
		t.Error("a request without payload has no body")
	}
}

func TestNewIdempotencyKey(t *testing.T) {
	a, b := NewIdempotencyKey(), NewIdempotencyKey()
	if a == "" || a == b {
		t.Errorf("keys must be unique and non empty: %q %q", a, b)
	}
	if len(a) != 36 {
		t.Errorf("unexpected key format %q", a)
	}
}
