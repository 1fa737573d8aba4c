package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/researchmesh/core"
)

func authTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "user-1", "email": "a@example.com"})
	})
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "hunter2" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "good-token",
			"refresh_token": "refresh-1",
			"user":          map[string]string{"id": "user-1", "email": creds["email"]},
		})
	})
	return httptest.NewServer(mux)
}

func TestClient_Verify(t *testing.T) {
	srv := authTestServer(t)
	defer srv.Close()

	client := NewClient(srv.URL, "service-key")

	identity, err := client.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, "a@example.com", identity.Email)

	// An unauthorized token is not an error, just no identity.
	identity, err = client.Verify(context.Background(), "bad-token")
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestClient_SignIn(t *testing.T) {
	srv := authTestServer(t)
	defer srv.Close()

	client := NewClient(srv.URL, "service-key")

	session, err := client.SignIn(context.Background(), "a@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "good-token", session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)
	assert.Equal(t, "user-1", session.User.ID)

	_, err = client.SignIn(context.Background(), "a@example.com", "wrong")
	assert.Error(t, err)
}

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier()
	v.Add("dev-token", core.Identity{ID: "dev", Email: "dev@localhost"})

	identity, err := v.Verify(context.Background(), "dev-token")
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "dev", identity.ID)

	identity, err = v.Verify(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, identity)
}
