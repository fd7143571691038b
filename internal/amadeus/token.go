package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	tokenPath = "/v1/security/oauth2/token"

	// The provider usually reports expires_in=1799 (~30 minutes); used when
	// the field is absent from the response.
	defaultTokenLifetime = 1799 * time.Second

	// A token is treated as expired one minute before its real expiry so
	// in-flight searches never race a dying token.
	tokenExpirySlack = 60 * time.Second

	tokenExchangeTimeout = 10 * time.Second
)

// TokenCache holds the provider bearer token for the life of the process and
// refreshes it on demand. Refresh is serialized under the mutex, so
// concurrent searches hitting an expired token trigger a single exchange.
type TokenCache struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	now          func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

type TokenCacheOption func(*TokenCache)

// WithHTTPClient replaces the exchange transport, used by tests.
func WithHTTPClient(c *http.Client) TokenCacheOption {
	return func(t *TokenCache) { t.httpClient = c }
}

// WithClock replaces the expiry clock, used by tests.
func WithClock(now func() time.Time) TokenCacheOption {
	return func(t *TokenCache) { t.now = now }
}

func NewTokenCache(baseURL, clientID, clientSecret string, opts ...TokenCacheOption) *TokenCache {
	t := &TokenCache{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     strings.TrimRight(baseURL, "/") + tokenPath,
		httpClient:   &http.Client{Timeout: tokenExchangeTimeout},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int    `json:"expires_in"`
	ErrorDescription string `json:"error_description"`
}

// Token returns the cached bearer token, refreshing it via a
// client-credentials exchange once the cached one is within a minute of
// expiry. It never returns an empty token without an error.
func (t *TokenCache) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && t.now().Before(t.expiresAt) {
		return t.token, nil
	}

	if t.clientID == "" || t.clientSecret == "" {
		return "", &AuthError{Detail: "client credentials not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", t.clientID)
	form.Set("client_secret", t.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Detail: fmt.Sprintf("token exchange: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthError{Detail: fmt.Sprintf("token exchange: read response: %v", err)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil && resp.StatusCode == http.StatusOK {
		return "", &AuthError{Detail: fmt.Sprintf("token exchange: malformed response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		detail := fmt.Sprintf("token endpoint returned %d", resp.StatusCode)
		if tr.ErrorDescription != "" {
			detail += ": " + tr.ErrorDescription
		}
		return "", &AuthError{Detail: detail}
	}

	if tr.AccessToken == "" {
		return "", &AuthError{Detail: "token endpoint returned no access_token"}
	}

	lifetime := defaultTokenLifetime
	if tr.ExpiresIn > 0 {
		lifetime = time.Duration(tr.ExpiresIn) * time.Second
	}

	t.token = tr.AccessToken
	t.expiresAt = t.now().Add(lifetime - tokenExpirySlack)
	return t.token, nil
}
