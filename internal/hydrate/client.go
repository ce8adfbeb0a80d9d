// Package hydrate fetches the remote board dataset and feeds the result
// into the store as hydration actions.
package hydrate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gosuda/kanban/internal/domain"
)

// MaxDelay bounds the artificial latency a client may request.
const MaxDelay = 10 * time.Second

// maxBodySize caps how much of a dataset response is read.
const maxBodySize = 8 << 20

// StatusError is returned for a non-2xx dataset response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d %s", e.Code, http.StatusText(e.Code))
}

// Client fetches a dataset over HTTP.
type Client struct {
	http  *http.Client
	url   string
	delay time.Duration
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.http = c }
}

// WithDelay asks the server to stall the response, to simulate a slow
// network. The delay is clamped to MaxDelay.
func WithDelay(d time.Duration) ClientOption {
	return func(cl *Client) { cl.delay = ClampDelay(d) }
}

func NewClient(rawURL string, opts ...ClientOption) *Client {
	c := &Client{http: http.DefaultClient, url: rawURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClampDelay limits d to [0, MaxDelay].
func ClampDelay(d time.Duration) time.Duration {
	return min(max(d, 0), MaxDelay)
}

// Fetch downloads and validates the dataset.
func (c *Client) Fetch(ctx context.Context) (*domain.Dataset, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("hydrate.Client.Fetch: parse url: %w", err)
	}
	if c.delay > 0 {
		q := u.Query()
		q.Set("delay", strconv.FormatInt(c.delay.Milliseconds(), 10))
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("hydrate.Client.Fetch: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hydrate.Client.Fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("hydrate.Client.Fetch: %w", &StatusError{Code: resp.StatusCode})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("hydrate.Client.Fetch: read body: %w", err)
	}

	ds, err := ValidateDataset(body)
	if err != nil {
		return nil, fmt.Errorf("hydrate.Client.Fetch: %w", err)
	}
	return ds, nil
}
