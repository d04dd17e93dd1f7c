package authapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thyago-vibe/posto-mobile/internal/config"
)

func TestNewClientDisabled(t *testing.T) {
	assert.Nil(t, NewClient(config.AuthConfig{}))
}

func TestResolveIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "project-key", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer valid-token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"uid-123","email":"carlos@posto.test"}`))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
		}
	}))
	defer srv.Close()

	client := NewClient(config.AuthConfig{BaseURL: srv.URL, APIKey: "project-key"})
	require.NotNil(t, client)

	identity, err := client.ResolveIdentity(context.Background(), "valid-token")
	require.NoError(t, err)
	assert.Equal(t, "uid-123", identity.UserID)
	assert.Equal(t, "carlos@posto.test", identity.Email)

	_, err = client.ResolveIdentity(context.Background(), "stale-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JWT")
}

func TestResolveIdentityEmptyUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(config.AuthConfig{BaseURL: srv.URL, APIKey: "k"})
	_, err := client.ResolveIdentity(context.Background(), "token")
	assert.Error(t, err)
}
