package pushover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Outcome tags the result of a delivery attempt so callers decide retry
// policy deliberately instead of inferring it from HTTP status codes.
type Outcome uint8

const (
	// OutcomeAccepted means the provider accepted the message. This is
	// provider acceptance, not end-user delivery confirmation.
	OutcomeAccepted Outcome = iota
	// OutcomeRetryable means the attempt failed transiently and a repeat
	// call with the same notification may succeed.
	OutcomeRetryable
	// OutcomePermanent means the provider rejected the message and retrying
	// the same notification will not help.
	OutcomePermanent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRetryable:
		return "retryable"
	case OutcomePermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Notification is one message to push.
type Notification struct {
	Title   string
	Message string
	HTML    bool
}

// Client delivers notifications to the Pushover message API. Calls are rate
// limited client-side because the provider enforces its own limits.
type Client struct {
	endpoint string
	token    string
	userKey  string
	client   *http.Client
	limiter  *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, mostly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Client) {
		if c != nil {
			p.client = c
		}
	}
}

// New creates a Pushover client from the provided configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Token == "" || cfg.UserKey == "" {
		return nil, ErrMissingCredentials
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.pushover.net/1/messages.json"
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}

	c := &Client{
		endpoint: endpoint,
		token:    cfg.Token,
		userKey:  cfg.UserKey,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// message is the provider wire format. The html field is an integer flag,
// not a boolean.
type message struct {
	Token   string `json:"token"`
	User    string `json:"user"`
	Title   string `json:"title"`
	Message string `json:"message"`
	HTML    int    `json:"html"`
}

// Push sends one notification and reports the tagged outcome. Exactly one
// provider call is made per invocation; the caller owns any retry loop.
func (c *Client) Push(ctx context.Context, n Notification) (Outcome, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return OutcomeRetryable, err
	}

	html := 0
	if n.HTML {
		html = 1
	}
	body, err := json.Marshal(message{
		Token:   c.token,
		User:    c.userKey,
		Title:   n.Title,
		Message: n.Message,
		HTML:    html,
	})
	if err != nil {
		return OutcomePermanent, fmt.Errorf("failed to marshal pushover message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return OutcomePermanent, fmt.Errorf("failed to build pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return OutcomeRetryable, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return OutcomeAccepted, nil
	}

	detail := responseDetail(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return OutcomeRetryable, fmt.Errorf("%w: status %d: %s", ErrDeliveryFailed, resp.StatusCode, detail)
	}
	return OutcomePermanent, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, detail)
}

// responseDetail extracts a short single-line diagnostic from the provider
// response body.
func responseDetail(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	detail := strings.ReplaceAll(string(raw), "\n", " ")
	if len(detail) > 200 {
		detail = detail[:200] + "..."
	}
	return detail
}
