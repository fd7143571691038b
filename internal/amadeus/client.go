package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/arpangb16/Prometheus-travel-planner/internal/domain"
)

const (
	searchTimeout = 30 * time.Second

	// Test-tier credentials allow roughly 10 requests per second.
	defaultRateLimit = 10
)

// Client searches the provider's flight-offers endpoint: it keeps a bearer
// token fresh through the token cache, shapes one request per query, and
// normalizes the response. Multi-city queries are searched one leg at a time
// by the orchestrator, so the client only ever sees one-way and return
// queries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenCache
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

// WithSearchHTTPClient replaces the search transport, used by tests.
func WithSearchHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithRateLimit caps outbound search requests per second.
func WithRateLimit(rps int) ClientOption {
	return func(cl *Client) { cl.limiter = rate.NewLimiter(rate.Limit(rps), rps) }
}

func NewClient(baseURL string, tokens *TokenCache, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: searchTimeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search runs one provider call for a one-way or return query and returns
// normalized, price-sorted options. Failures surface as *AuthError,
// *TransportError or *NoDataError; the caller decides whether to propagate
// or substitute synthetic data.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	if q.Type == domain.TripTypeMultiCity {
		return nil, fmt.Errorf("amadeus: multi-city queries are searched per leg")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: "rate limit wait", Err: err}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	sr := buildRequests(q)[0]
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+sr.path+"?"+sr.params.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "flight offers search", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Detail: fmt.Sprintf("search rejected with status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		// The provider answered, just not with offers; its error body still
		// carries the diagnostic detail.
		var er offersResponse
		_ = json.Unmarshal(body, &er)
		detail := fmt.Sprintf("search returned status %d", resp.StatusCode)
		if d := errorDetail(er.Errors); d != "" {
			detail += ": " + d
		}
		return nil, &NoDataError{Detail: detail}
	}

	return normalize(body, q.Type == domain.TripTypeReturn, q.CabinClass)
}
