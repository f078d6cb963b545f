// Package auth obtains short-lived bearer tokens for storage backends
// that sit behind an OAuth2-style token endpoint.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// ExpirationMargin is how long before the advertised expiry a cached
// token is treated as expired, so in-flight requests do not race the
// deadline.
const ExpirationMargin = 60 * time.Second

// ErrInvalidToken is returned when the endpoint answers without a
// usable access token.
var ErrInvalidToken = errors.New("auth: invalid token response")

// Token is a short-term bearer token.
type Token struct {
	Value  string
	Expiry time.Time
}

// Valid reports whether the token is usable at time now, keeping the
// expiration margin.
func (t Token) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.Expiry.Add(-ExpirationMargin))
}

// TokenProvider yields bearer tokens. Implementations must be safe for
// concurrent use.
type TokenProvider interface {
	Token(ctx context.Context) (Token, error)
}

// StaticTokenProvider returns a fixed token that never expires.
type StaticTokenProvider string

func (p StaticTokenProvider) Token(context.Context) (Token, error) {
	return Token{Value: string(p), Expiry: time.Now().Add(24 * 365 * time.Hour)}, nil
}

// RefreshToken holds long-term refresh-grant credentials.
type RefreshToken struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// RefreshTokenProvider exchanges a refresh token for bearer tokens at
// an HTTP endpoint and caches them until they near expiry. Refresh
// attempts are bounded by a rate limiter so a misbehaving endpoint
// cannot be hammered. Safe for concurrent use.
type RefreshTokenProvider struct {
	creds   RefreshToken
	uri     string
	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time

	mu    sync.Mutex
	token Token
}

// Option configures a RefreshTokenProvider.
type Option func(*RefreshTokenProvider)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *RefreshTokenProvider) { p.client = c }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(p *RefreshTokenProvider) { p.now = now }
}

// WithRefreshLimit overrides the refresh rate limit.
func WithRefreshLimit(l *rate.Limiter) Option {
	return func(p *RefreshTokenProvider) { p.limiter = l }
}

// NewRefreshTokenProvider creates a provider posting refresh grants to
// uri.
func NewRefreshTokenProvider(creds RefreshToken, uri string, opts ...Option) *RefreshTokenProvider {
	p := &RefreshTokenProvider{
		creds:   creds,
		uri:     uri,
		client:  http.DefaultClient,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token returns the cached bearer token, refreshing it first when it
// is missing or near expiry.
func (p *RefreshTokenProvider) Token(ctx context.Context) (Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.Valid(p.now()) {
		return p.token, nil
	}
	if err := p.refreshLocked(ctx); err != nil {
		return Token{}, err
	}
	return p.token, nil
}

func (p *RefreshTokenProvider) refreshLocked(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {p.creds.ClientID},
		"client_secret": {p.creds.ClientSecret},
		"refresh_token": {p.creds.RefreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.uri, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth: token endpoint returned %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := gojson.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if payload.AccessToken == "" || payload.ExpiresIn <= 0 {
		return ErrInvalidToken
	}

	p.token = Token{
		Value:  payload.AccessToken,
		Expiry: p.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}
	return nil
}
