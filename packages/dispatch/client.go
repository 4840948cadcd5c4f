package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/google/uuid"

	"github.com/ACCIDENTPROJECT/NoTraceEdit/packages/rewrite"
)

const (
	// DefaultTimeout bounds one dispatch attempt end to end.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:    DefaultMaxIdleConns,
			IdleConnTimeout: DefaultIdleConnTimeout,
		},
		Timeout: c.timeout,
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header when the capture itself did
// not carry one.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Send issues the rewritten request as a single POST. The returned Result is
// never nil; transport faults and non-200 statuses both surface as failures
// with a diagnostic rather than an error. No retries are attempted.
func (c *Client) Send(ctx context.Context, payload *rewrite.Payload) *Result {
	attemptID := uuid.New().String()

	if err := ValidateEndpoint(payload.Endpoint); err != nil {
		return failure(attemptID, payload.Endpoint, 0, err.Error())
	}

	bodyJSON, err := json.Marshal(payload.Body)
	if err != nil {
		return failure(attemptID, payload.Endpoint, 0, fmt.Sprintf("could not encode body: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, payload.Endpoint, bytes.NewReader(bodyJSON))
	if err != nil {
		return failure(attemptID, payload.Endpoint, 0, fmt.Sprintf("could not build request: %v", err))
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range payload.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(attemptID, payload.Endpoint, 0, fmt.Sprintf("network error: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(attemptID, payload.Endpoint, resp.StatusCode, fmt.Sprintf("could not read response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return failure(attemptID, payload.Endpoint, resp.StatusCode,
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(respBody)))
	}

	return &Result{
		OK:        true,
		AttemptID: attemptID,
		Endpoint:  payload.Endpoint,
		Status:    resp.StatusCode,
		Body:      respBody,
	}
}

func failure(attemptID, endpoint string, status int, diagnostic string) *Result {
	return &Result{
		AttemptID:  attemptID,
		Endpoint:   endpoint,
		Status:     status,
		Diagnostic: diagnostic,
	}
}

// ValidateEndpoint checks that an endpoint is well-formed and uses an allowed
// scheme before any connection is made.
func ValidateEndpoint(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported endpoint scheme: %s (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("endpoint must have a host")
	}

	return nil
}
