package amazon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerpulse/ads-optimizer-backend/internal/config"
)

func authConfig(tokenEndpoint string) *config.AmazonConfig {
	return &config.AmazonConfig{
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
		RefreshToken:  "refresh-token",
		TokenEndpoint: tokenEndpoint,
	}
}

func TestTokenRefreshExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "refresh-token", r.PostForm.Get("refresh_token"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		w.Write([]byte(`{"access_token":"fresh-token","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	auth := NewAuthService(authConfig(srv.URL))
	token, err := auth.GetAccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
	assert.True(t, auth.HasValidToken())
}

func TestTokenIsCachedUntilRefreshMargin(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(`{"access_token":"fresh-token","expires_in":3600}`))
	}))
	defer srv.Close()

	auth := NewAuthService(authConfig(srv.URL))
	_, err := auth.GetAccessToken(context.Background())
	require.NoError(t, err)
	_, err = auth.GetAccessToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestTokenNearExpiryIsRefreshed(t *testing.T) {
	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		// Declared lifetime shorter than the refresh margin
		w.Write([]byte(`{"access_token":"short-token","expires_in":120}`))
	}))
	defer srv.Close()

	auth := NewAuthService(authConfig(srv.URL))
	_, err := auth.GetAccessToken(context.Background())
	require.NoError(t, err)
	_, err = auth.GetAccessToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestTokenRefreshFailsWithoutCredentials(t *testing.T) {
	auth := NewAuthService(&config.AmazonConfig{})
	_, err := auth.GetAccessToken(context.Background())
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestTokenRefreshSurfacesUpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	auth := NewAuthService(authConfig(srv.URL))
	_, err := auth.GetAccessToken(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, auth.HasValidToken())

	// No stale token is cached after a failed refresh
	token, err := auth.GetAccessToken(context.Background())
	assert.Error(t, err)
	assert.Empty(t, token)
}
