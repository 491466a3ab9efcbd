// Package client holds the adapters for the three upstream data sources:
// daily prices (Polygon), earnings surprises and company profiles (Finnhub)
// and regulatory filings (SEC EDGAR).
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
	"github.com/bobmcallan/earnings-insight/internal/common"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds each upstream request.
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the outbound request budget per second per client.
	DefaultRateLimit = 5

	// maxBodySize caps how much of an upstream response is read.
	maxBodySize = 32 << 20

	// placeholderKey is the value shipped in example env files.
	placeholderKey = "your_key_here"
)

// KeyConfigured reports whether key looks like a real credential.
func KeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholderKey
}

// APIError is a non-2xx response from an upstream provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s (status: %d, endpoint: %s)", e.Provider, e.Message, e.StatusCode, e.Endpoint)
}

// Kind classifies every upstream status failure as transport.
func (e *APIError) Kind() apperr.Kind { return apperr.KindTransport }

// IsRateLimited reports whether the provider rejected the call for rate.
func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// Option configures a client.
type Option func(*base)

// WithBaseURL overrides the provider's base URL.
func WithBaseURL(baseURL string) Option {
	return func(b *base) {
		if baseURL != "" {
			b.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(b *base) {
		b.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(b *base) {
		if d > 0 {
			b.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *common.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero or less leaves the default.
func WithRateLimit(requestsPerSecond int) Option {
	return func(b *base) {
		if requestsPerSecond > 0 {
			b.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithClock overrides the clock used to compute date windows.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

// base carries the HTTP plumbing shared by the adapters. Each call is a
// single attempt; throttling only spaces outbound requests.
type base struct {
	provider   string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger
	now        func() time.Time
}

func newBase(provider, baseURL string, opts []Option) base {
	b := base{
		provider:   provider,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     common.NewSilentLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// get fetches rawURL and returns the body of a 2xx response. endpoint is the
// credential-free path used in logs and errors.
func (b *base) get(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	op := strings.ToLower(b.provider) + " " + endpoint

	if err := b.limiter.Wait(ctx); err != nil {
		return nil, apperr.Transport(op, fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}

	start := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Transport(op, fmt.Errorf("failed to reach %s: %w", b.provider, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, apperr.Transport(op, fmt.Errorf("failed to read response: %w", err))
	}

	b.logger.Debug().
		Str("provider", b.provider).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("upstream request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Provider:   b.provider,
			StatusCode: resp.StatusCode,
			Message:    truncate(strings.TrimSpace(string(body)), 200),
			Endpoint:   endpoint,
		}
	}
	return body, nil
}

// getJSON fetches rawURL and decodes the JSON body into result.
func (b *base) getJSON(ctx context.Context, endpoint, rawURL string, result any) error {
	body, err := b.get(ctx, endpoint, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return apperr.Malformed(strings.ToLower(b.provider)+" "+endpoint, "failed to decode response: %v", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}
