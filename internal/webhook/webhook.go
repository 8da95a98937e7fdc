// Package webhook posts JSON bodies to HTTP webhooks (generic endpoints
// and Slack incoming webhooks).
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies the relay to webhook receivers.
	DefaultUserAgent = "rcrelay-go: wiki recent changes relay"

	// SlackPrefix is the required prefix of Slack incoming webhook URLs.
	SlackPrefix = "https://hooks.slack.com/services/"

	// slackSegments is the number of '/'-separated parts of a Slack URL:
	// "https:", "", host, "services" and the three token parts.
	slackSegments = 7
)

// ErrInvalidSlackURL is returned by NewSlack for URLs that are not Slack
// incoming webhooks.
var ErrInvalidSlackURL = errors.New("invalid Slack webhook URL")

// HTTPError reports a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string // first bytes of the response body
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("webhook: HTTP %d: %s", e.StatusCode, e.Body)
}

// maxErrorBody bounds how much of an error response HTTPError keeps.
const maxErrorBody = 512

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) { c.headers = h }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// Client posts to one webhook URL. It is safe for concurrent use.
type Client struct {
	client    *http.Client
	url       string
	headers   map[string]string
	userAgent string
}

// New creates a client for the given webhook URL.
func New(url string, opts ...Option) *Client {
	c := &Client{
		client:    &http.Client{Timeout: defaultTimeout},
		url:       url,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSlack creates a client for a Slack incoming webhook.
func NewSlack(url string, opts ...Option) (*Client, error) {
	if !strings.HasPrefix(url, SlackPrefix) || len(strings.Split(url, "/")) != slackSegments {
		return nil, ErrInvalidSlackURL
	}
	return New(url, opts...), nil
}

// URL returns the webhook URL.
func (c *Client) URL() string {
	return c.url
}

// Post sends body as JSON and returns the response status code. A non-2xx
// status is returned together with an *HTTPError.
func (c *Client) Post(ctx context.Context, body any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, &HTTPError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(snippet)),
	}
}

// SlackMessage is the minimal Slack incoming webhook payload.
type SlackMessage struct {
	Text string `json:"text"`
}
