package core

import (
	"net/http"
	"testing"
)

func TestBuildHeaders(t *testing.T) {
	creds := Credentials{ClientID: "id", ClientSecret: "secret"}
	session := NewSessionContext("ok1", "fp1")

	tests := []struct {
		name        string
		in          HeaderInput
		wantUser    string
		wantIdem    string
		wantGateway string
		wantCT      string
	}{
		{
			name:        "unscoped without fingerprint",
			in:          HeaderInput{Credentials: creds},
			wantUser:    "|",
			wantGateway: "id|secret",
		},
		{
			name:        "unscoped with fingerprint",
			in:          HeaderInput{Credentials: creds, Fingerprint: "fp9"},
			wantUser:    "|fp9",
			wantGateway: "id|secret",
		},
		{
			name:        "user scoped",
			in:          HeaderInput{Credentials: creds, Session: &session, Fingerprint: "ignored"},
			wantUser:    "ok1|fp1",
			wantGateway: "id|secret",
		},
		{
			name:        "idempotency key and body",
			in:          HeaderInput{Credentials: creds, Session: &session, IdempotencyKey: "k1", HasBody: true},
			wantUser:    "ok1|fp1",
			wantIdem:    "k1",
			wantGateway: "id|secret",
			wantCT:      ContentTypeJSON,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := BuildHeaders(tt.in)
			if got := h.Get(HeaderGateway); got != tt.wantGateway {
				t.Errorf("gateway = %q, want %q", got, tt.wantGateway)
			}
			if got := h.Get(HeaderUser); got != tt.wantUser {
				t.Errorf("user = %q, want %q", got, tt.wantUser)
			}
			if _, present := h[http.CanonicalHeaderKey(HeaderUserIP)]; !present {
				t.Errorf("client ip header must always be present")
			}
			idem, present := h[http.CanonicalHeaderKey(HeaderIdempotencyKey)]
			if tt.wantIdem == "" && present {
				t.Errorf("idempotency header must be absent, got %v", idem)
			}
			if tt.wantIdem != "" && h.Get(HeaderIdempotencyKey) != tt.wantIdem {
				t.Errorf("idempotency = %q, want %q", h.Get(HeaderIdempotencyKey), tt.wantIdem)
			}
			if got := h.Get(HeaderContentType); got != tt.wantCT {
				t.Errorf("content type = %q, want %q", got, tt.wantCT)
			}
			if h.Get(HeaderAccept) != ContentTypeJSON {
				t.Errorf("accept = %q", h.Get(HeaderAccept))
			}
		})
	}
}

func TestBuildHeaders_FreshPerCall(t *testing.T) {
	in := HeaderInput{Credentials: Credentials{ClientID: "id", ClientSecret: "secret"}, IdempotencyKey: "k1"}
	first := BuildHeaders(in)
	first.Set(HeaderGateway, "tampered")
	in.IdempotencyKey = ""
	second := BuildHeaders(in)
	if second.Get(HeaderGateway) != "id|secret" {
		t.Error("header sets must not be shared between calls")
	}
	if second.Get(HeaderIdempotencyKey) != "" {
		t.Error("idempotency key leaked into a later call")
	}
}

func TestBuildHeaders_Anonymous(t *testing.T) {
	h := BuildHeaders(HeaderInput{Anonymous: true, UserAgent: "ua"})
	if h.Get(HeaderGateway) != "" || h.Get(HeaderUser) != "" {
		t.Errorf("anonymous call carries credentials: %v", h)
	}
	if h.Get(HeaderUserAgent) != "ua" {
		t.Errorf("user agent = %q", h.Get(HeaderUserAgent))
	}
}

func TestBuildHeaders_Preconditions(t *testing.T) {
	t.Run("invalid credentials panic", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic for missing client secret")
			}
		}()
		BuildHeaders(HeaderInput{Credentials: Credentials{ClientID: "id"}})
	})

	t.Run("empty oauth key panics", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic for empty oauth key")
			}
		}()
		BuildHeaders(HeaderInput{
			Credentials: Credentials{ClientID: "id", ClientSecret: "secret"},
			Session:     &SessionContext{Fingerprint: "fp"},
		})
	})
}

func TestNewSessionContext(t *testing.T) {
	sc := NewSessionContext("ok1", "")
	if !sc.Valid() || sc.Fingerprint != "" {
		t.Errorf("unexpected context %v", sc)
	}
	if got := sc.String(); got != `SessionContext{oauth_key:<redacted> fingerprint:""}` {
		t.Errorf("String() = %s", got)
	}
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for empty oauth key")
		}
	}()
	NewSessionContext("", "fp")
}
