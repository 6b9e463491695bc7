package clientcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultAPIPrefix is prepended to bare endpoint names.
	DefaultAPIPrefix = "/api/"

	wakeupPath  = "/wakeup"
	journalPath = "/api/_journal"
)

// Client performs read operations against a Sheetbridge server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := DefaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Timeout:  timeout,
		},
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Get fetches one endpoint and unwraps its single-key envelope.
// target is either a path ("/api/questions") or a bare name ("questions").
func (c *Client) Get(ctx context.Context, target string) (*GetResult, error) {
	path := ResolvePath(target)
	if path == "" {
		return nil, fmt.Errorf("get: %w", ErrEmptyPath)
	}

	body, err := c.do(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse response: %w: %w", ErrBadEnvelope, err)
	}
	if len(envelope) != 1 {
		return nil, fmt.Errorf("parse response: %w: got %d keys", ErrBadEnvelope, len(envelope))
	}

	result := &GetResult{Path: path}
	for key, raw := range envelope {
		result.Key = key
		if err := json.Unmarshal(raw, &result.Items); err != nil {
			return nil, fmt.Errorf("parse %q: %w: %w", key, ErrBadEnvelope, err)
		}
	}
	if result.Items == nil {
		result.Items = []json.RawMessage{}
	}

	return result, nil
}

// Wakeup pings the server's liveness route.
func (c *Client) Wakeup(ctx context.Context) (*WakeupResult, error) {
	start := time.Now()

	body, err := c.do(ctx, wakeupPath, nil)
	if err != nil {
		return nil, err
	}

	var resp serverWakeup
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &WakeupResult{
		Status:  resp.Status,
		Message: resp.Message,
		Latency: time.Since(start),
	}, nil
}

// Journal lists recorded fetches, newest first.
// If opts.All is true, paginates through all results.
func (c *Client) Journal(ctx context.Context, opts JournalOptions) (*JournalResult, error) {
	if opts.All {
		return c.journalAll(ctx, opts)
	}
	return c.journalPage(ctx, opts)
}

func (c *Client) journalPage(ctx context.Context, opts JournalOptions) (*JournalResult, error) {
	query := url.Values{}
	if opts.Endpoint != "" {
		query.Set("endpoint", opts.Endpoint)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	body, err := c.do(ctx, journalPath, query)
	if err != nil {
		return nil, err
	}

	var result JournalResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if result.Items == nil {
		result.Items = []JournalEntry{}
	}

	return &result, nil
}

func (c *Client) journalAll(ctx context.Context, opts JournalOptions) (*JournalResult, error) {
	allItems := []JournalEntry{}
	cursor := opts.Cursor

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := c.journalPage(ctx, JournalOptions{
			Endpoint: opts.Endpoint,
			Limit:    opts.Limit,
			Cursor:   cursor,
		})
		if err != nil {
			return nil, err
		}

		allItems = append(allItems, page.Items...)

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return &JournalResult{Items: allItems}, nil
}

// do issues a GET and returns the body of a 200 response.
func (c *Client) do(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.config.Endpoint + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp.StatusCode, body)
	}

	return body, nil
}

// ResolvePath turns a bare endpoint name into its default API path.
// Values starting with "/" are returned unchanged apart from a trailing slash.
func ResolvePath(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || target == "/" {
		return ""
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimSuffix(target, "/")
	}
	return DefaultAPIPrefix + strings.Trim(target, "/")
}

// parseServerError extracts the error message from a server response.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}

	var resp serverError
	if json.Unmarshal(body, &resp) == nil {
		apiErr.Message = resp.Error
	}

	return apiErr
}
