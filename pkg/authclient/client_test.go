package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeAPI(t *testing.T, validToken string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct{ Email, Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Email == "a@b.com" && req.Password == "correct" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": validToken})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "incorrect email or password"})
	})
	mux.HandleFunc("/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(Identity{ID: 1, Email: "a@b.com", Name: "A", Role: "member"})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return httptest.NewServer(mux)
}

func TestClient_LoginStoresToken(t *testing.T) {
	t.Parallel()

	srv := newFakeAPI(t, "good-token")
	defer srv.Close()

	store := NewMemoryStore()
	c := NewClient(srv.URL, store)

	require.NoError(t, c.Login(context.Background(), "a@b.com", "correct"))
	assert.Equal(t, "good-token", store.Get())
	assert.True(t, c.HasSession())
}

func TestClient_LoginFailure_Generic(t *testing.T) {
	t.Parallel()

	srv := newFakeAPI(t, "good-token")
	defer srv.Close()

	store := NewMemoryStore()
	c := NewClient(srv.URL, store)

	err := c.Login(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, store.Get())
}

func TestClient_DoAttachesStoredToken(t *testing.T) {
	t.Parallel()

	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Set("ambient-token", time.Now().Add(time.Hour))
	c := NewClient(srv.URL, store)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/anything", nil)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer ambient-token", seen)
}

func TestClient_ExplicitTokenWins(t *testing.T) {
	t.Parallel()

	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Set("ambient-token", time.Now().Add(time.Hour))
	c := NewClient(srv.URL, store)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/anything", nil)
	req.Header.Set("Authorization", "Bearer explicit-token")
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer explicit-token", seen)
	// The ambient token survives; only a 401 clears it.
	assert.Equal(t, "ambient-token", store.Get())
}

func TestClient_UnauthorizedClearsStore(t *testing.T) {
	t.Parallel()

	srv := newFakeAPI(t, "good-token")
	defer srv.Close()

	store := NewMemoryStore()
	store.Set("expired-token", time.Now().Add(time.Hour))
	c := NewClient(srv.URL, store)

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, store.Get())
	assert.False(t, c.HasSession())

	// A protected route now redirects to the anonymous entry point.
	guard := NewGuard("/login", "/dashboard").Protect("/dashboard").AnonymousOnly("/login")
	redirect, ok := guard.Check("/dashboard", c.HasSession())
	assert.False(t, ok)
	assert.Equal(t, "/login", redirect)
}

func TestClient_ForbiddenKeepsStore(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	store.Set("valid-token", time.Now().Add(time.Hour))
	c := NewClient(srv.URL, store)

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "valid-token", store.Get())
}

func TestClient_LogoutIdempotent(t *testing.T) {
	t.Parallel()

	srv := newFakeAPI(t, "good-token")
	defer srv.Close()

	store := NewMemoryStore()
	c := NewClient(srv.URL, store)
	require.NoError(t, c.Login(context.Background(), "a@b.com", "correct"))

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, store.Get())

	// Logging out with no token present must not error.
	require.NoError(t, c.Logout(context.Background()))
}

func TestMemoryStore_ExpiryAndClear(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.Set("tok", time.Now().Add(-time.Minute))
	assert.Empty(t, store.Get(), "expired token reads as absent")

	store.Set("tok", time.Now().Add(time.Hour))
	assert.Equal(t, "tok", store.Get())

	store.Clear()
	store.Clear() // clearing an empty store is a no-op
	assert.Empty(t, store.Get())
}
