// Package backend provides a client for the tax-alpha backend endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phuslu/log"
)

const (
	// DefaultBaseURL is where the development backend listens.
	DefaultBaseURL = "http://127.0.0.1:5000"

	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "taxalpha/1.0"
	maxBodySize      = 1 << 20 // 1 MB
	maxErrorBody     = 512
)

var (
	// ErrUnauthorized indicates the backend rejected the token or credentials.
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrRateLimited indicates the backend rate limit was hit.
	ErrRateLimited = errors.New("backend: rate limited")
)

// StatusError is returned for any other non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Status int
	// Message is the backend's error envelope text, or a body excerpt.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("backend: %s %s: status %d", e.Method, e.Path, e.Status)
}

// API is the set of backend operations the session dispatcher needs.
type API interface {
	CreateLinkToken(ctx context.Context) (string, error)
	FetchInvestments(ctx context.Context, publicToken string) (Payload, error)
	FetchHarvestingSuggestions(ctx context.Context, investments Payload) ([]Suggestion, error)
	FetchStockPrice(ctx context.Context, symbol string) (Payload, error)
	CalculateTaxes(ctx context.Context, req TaxRequest) (Payload, error)
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	log       *log.Logger
}

var _ API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the backend at baseURL.
// Returns an error if baseURL is not an absolute http(s) URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("backend: parsing base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("backend: base URL %q must be an absolute http(s) URL", baseURL)
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
		http:      &http.Client{},
		log:       &log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string { return c.baseURL }

// CreateLinkToken fetches a fresh link token for the account-link flow.
func (c *Client) CreateLinkToken(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/create_link_token", nil, nil)
	if err != nil {
		return "", err
	}

	var lt LinkToken
	if err := json.Unmarshal(body, &lt); err != nil {
		return "", fmt.Errorf("backend: parsing link token: %w", err)
	}
	if lt.LinkToken == "" {
		return "", errors.New("backend: response has no link_token")
	}
	return lt.LinkToken, nil
}

// FetchInvestments exchanges a public token for the linked account's holdings.
func (c *Client) FetchInvestments(ctx context.Context, publicToken string) (Payload, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/investments", nil, InvestmentsRequest{PublicToken: publicToken})
	if err != nil {
		return nil, err
	}
	return toPayload(body)
}

// FetchHarvestingSuggestions asks the backend for tax-loss harvesting candidates.
func (c *Client) FetchHarvestingSuggestions(ctx context.Context, investments Payload) ([]Suggestion, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/tax_loss_harvesting", nil, HarvestingRequest{InvestmentData: investments})
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	if err := json.Unmarshal(body, &suggestions); err != nil {
		return nil, fmt.Errorf("backend: parsing harvesting suggestions: %w", err)
	}
	if suggestions == nil {
		suggestions = []Suggestion{}
	}
	return suggestions, nil
}

// FetchStockPrice returns the backend's price document for symbol.
func (c *Client) FetchStockPrice(ctx context.Context, symbol string) (Payload, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	body, err := c.do(ctx, http.MethodGet, "/api/stock_price", q, nil)
	if err != nil {
		return nil, err
	}
	return toPayload(body)
}

// CalculateTaxes submits income and brackets and returns the tax result document.
func (c *Client) CalculateTaxes(ctx context.Context, req TaxRequest) (Payload, error) {
	body, err := c.do(ctx, http.MethodPost, "/calculate_taxes", nil, req)
	if err != nil {
		return nil, err
	}
	return toPayload(body)
}

// do performs one round-trip and returns the response body of a 2xx reply.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("backend: encoding %s body: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("backend: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	//nolint:gosec // URL is built from the configured base URL
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("method", method).Str("path", path).Err(err).Msg("backend request failed")
		return nil, fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("backend request")

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("backend: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(body),
		}
	}
	return body, nil
}

// errorMessage extracts the backend's {"error": ...} text, falling back to
// a trimmed body excerpt.
func errorMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		return env.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return msg
}

func toPayload(body []byte) (Payload, error) {
	if !json.Valid(body) {
		return nil, errors.New("backend: response is not valid JSON")
	}
	return Payload(bytes.Clone(body)), nil
}
