package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTokenServer(t *testing.T, calls *atomic.Int64, expiresIn int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "cid", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "rtok", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"bearer-abc","expires_in":` + strconv.FormatInt(expiresIn, 10) + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testCreds() RefreshToken {
	return RefreshToken{ClientID: "cid", ClientSecret: "secret", RefreshToken: "rtok"}
}

func TestRefreshTokenProviderFetchesAndCaches(t *testing.T) {
	var calls atomic.Int64
	srv := newTokenServer(t, &calls, 3600)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewRefreshTokenProvider(testCreds(), srv.URL, WithClock(func() time.Time { return now }))

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bearer-abc", tok.Value)
	assert.Equal(t, now.Add(3600*time.Second), tok.Expiry)

	// Cached until the margin; no second request.
	_, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	// Within the expiration margin the token counts as expired.
	now = now.Add(3600*time.Second - 30*time.Second)
	_, err = p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestTokenValid(t *testing.T) {
	now := time.Now()
	assert.False(t, Token{}.Valid(now))
	assert.False(t, Token{Value: "x", Expiry: now.Add(30 * time.Second)}.Valid(now))
	assert.True(t, Token{Value: "x", Expiry: now.Add(5 * time.Minute)}.Valid(now))
}

func TestRefreshTokenProviderEndpointErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	p := NewRefreshTokenProvider(testCreds(), srv.URL)
	_, err := p.Token(context.Background())
	assert.ErrorContains(t, err, "403")
}

func TestRefreshTokenProviderRejectsEmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	p := NewRefreshTokenProvider(testCreds(), srv.URL)
	_, err := p.Token(context.Background())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenProviderRateLimitsRefreshes(t *testing.T) {
	var calls atomic.Int64
	// expires_in of 1s is always inside the margin, so every Token call
	// wants a refresh.
	srv := newTokenServer(t, &calls, 1)

	limiter := rate.NewLimiter(rate.Every(time.Hour), 2)
	p := NewRefreshTokenProvider(testCreds(), srv.URL, WithRefreshLimit(limiter))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// Each call refreshes; a fresh refresh always yields the new token.
	_, err := p.Token(ctx)
	require.NoError(t, err)
	_, err = p.Token(ctx)
	require.NoError(t, err)

	// Burst exhausted: the limiter refuses within the context deadline.
	_, err = p.Token(ctx)
	assert.Error(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestStaticTokenProvider(t *testing.T) {
	tok, err := StaticTokenProvider("fixed").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed", tok.Value)
	assert.True(t, tok.Valid(time.Now()))
}
