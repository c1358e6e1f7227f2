package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapsepay/go-synapse-client/core"
)

// recordingSession captures every request instead of sending it.
type recordingSession struct {
	mu       sync.Mutex
	requests []*core.ApiRequest
	respond  func(req *core.ApiRequest) (core.Record, error)
}

func (s *recordingSession) Execute(_ context.Context, req *core.ApiRequest) (core.Record, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.respond != nil {
		return s.respond(req)
	}
	return core.Record{"success": true}, nil
}

func (s *recordingSession) GetConfig() *core.SynapseConfig {
	return &core.SynapseConfig{ClientID: "id", ClientSecret: "secret", Sandbox: true}
}

func (s *recordingSession) last(t *testing.T) *core.ApiRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests, "no request was executed")
	return s.requests[len(s.requests)-1]
}

func (s *recordingSession) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func payloadJSON(t *testing.T, req *core.ApiRequest) string {
	t.Helper()
	data, err := json.Marshal(req.Payload)
	require.NoError(t, err)
	return string(data)
}

// authenticated returns a UserSession for user u1 bound to a recording session.
func authenticated(t *testing.T) (*UserSession, *recordingSession) {
	t.Helper()
	rec := &recordingSession{}
	return NewUserSession(rec, "u1", core.NewSessionContext("ok1", "fp1"), "r1"), rec
}

// newServerSession builds a real session against an httptest server.
func newServerSession(t *testing.T, handler http.HandlerFunc) *core.SynapseSession {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	config := &core.SynapseConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		Sandbox:      true,
		BaseURL:      server.URL + "/api/3",
	}
	config.Validate(core.DefaultValidators()...)
	session, err := core.NewSynapseSession(config)
	require.NoError(t, err)
	return session
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// readJSON runs inside handlers, so it reports with assert rather than require.
func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}
