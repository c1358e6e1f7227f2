package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapsepay/go-synapse-client/core"
)

func TestNewSynapseRest(t *testing.T) {
	var patched map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/3/oauth/u1":
			_ = json.NewEncoder(w).Encode(map[string]any{"oauth_key": "ok1", "refresh_token": "r1"})
		case "/api/3/users/u1":
			assert.Equal(t, "ok1|fp", r.Header.Get(core.HeaderUser))
			if r.Method == http.MethodPatch {
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"_id": "u1", "legal_names": []string{"Test User"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, err := NewSynapseRest(&core.SynapseConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL + "/api/3",
	})
	require.NoError(t, err)
	require.NotNil(t, client.Users)
	require.NotNil(t, client.Subscriptions)
	require.NotNil(t, client.Institutions)
	assert.Equal(t, client.Session, client.GetSession())

	us, err := client.AuthenticateAs(context.Background(), "u1", "r1", "fp")
	require.NoError(t, err)
	user, err := us.User(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.RecordID())

	resumed := client.ResumeSession("u1", us.Context(), us.RefreshToken)
	assert.Equal(t, us.Context(), resumed.Context())
	_, err = resumed.Update(context.Background(), core.Params{"phone_number": "555"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"refresh_token": "r1", "update": map[string]any{"phone_number": "555"}}, patched)
}

func TestNewSynapseRest_InvalidConfig(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = NewSynapseRest(&core.SynapseConfig{ClientID: "id"})
	})
}
