package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beercompass/barfetch/pkg/log"
)

const (
	// DefaultURL is the public Overpass interpreter endpoint.
	DefaultURL = "https://overpass-api.de/api/interpreter"

	// DefaultUserAgent identifies barfetch to the interpreter operators.
	DefaultUserAgent = "BeerCompass/1.0"

	// DefaultRequestTimeout bounds one HTTP round trip including the body.
	DefaultRequestTimeout = 180 * time.Second

	maxErrorBody = 512
)

// RetryPolicy controls how failed requests are retried.
//
// The wait before retry n (counting from 1) is n*GatewayStep after a 504,
// n*RateLimitStep after a 429 and n*TimeoutStep after a client timeout.
// Other transport errors back off exponentially from BackoffInitial.
type RetryPolicy struct {
	MaxAttempts    int
	GatewayStep    time.Duration
	RateLimitStep  time.Duration
	TimeoutStep    time.Duration
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// DefaultRetryPolicy returns the policy used against the public instance.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		GatewayStep:    10 * time.Second,
		RateLimitStep:  60 * time.Second,
		TimeoutStep:    5 * time.Second,
		BackoffInitial: 2 * time.Second,
		BackoffMax:     30 * time.Second,
	}
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Client posts queries to an Overpass interpreter.
type Client struct {
	url            string
	userAgent      string
	httpClient     HTTPClient
	logger         log.Logger
	policy         RetryPolicy
	requestTimeout time.Duration
	sleep          Sleeper
}

// Option configures a Client.
type Option func(*Client)

// WithURL sets the interpreter endpoint.
func WithURL(u string) Option {
	return func(c *Client) { c.url = u }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithRequestTimeout bounds each attempt.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.requestTimeout = d }
}

// WithSleeper replaces the wait between attempts.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// NewClient creates a Client with defaults for the public instance.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:            DefaultURL,
		userAgent:      DefaultUserAgent,
		httpClient:     http.DefaultClient,
		logger:         log.NewNoopLogger(),
		policy:         DefaultRetryPolicy(),
		requestTimeout: DefaultRequestTimeout,
		sleep:          sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.policy.MaxAttempts <= 0 {
		c.policy.MaxAttempts = 1
	}
	return c
}

// Fetch runs q and returns the decoded response together with the raw body.
func (c *Client) Fetch(ctx context.Context, q Query) (*Response, []byte, error) {
	body := q.String()
	back := NewBackoff(c.policy.BackoffInitial, c.policy.BackoffMax)

	var lastErr error
	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		c.logger.Debug("overpass request",
			log.String("bbox", q.BBox),
			log.Progress(attempt+1, c.policy.MaxAttempts),
		)

		raw, err := c.post(ctx, body)
		if err == nil {
			var resp Response
			if err := json.Unmarshal(raw, &resp); err != nil {
				return nil, nil, fmt.Errorf("decode response: %w", err)
			}
			if resp.Remark != "" {
				c.logger.Warn("overpass remark", log.String("remark", resp.Remark))
			}
			return &resp, raw, nil
		}
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		wait, ok := c.retryDelay(attempt, err, back)
		if !ok {
			return nil, nil, err
		}
		lastErr = err
		if attempt == c.policy.MaxAttempts-1 {
			break
		}

		c.logger.Warn("overpass request failed, retrying",
			log.Err(err),
			log.Progress(attempt+1, c.policy.MaxAttempts),
			log.Duration("wait", wait),
		)
		if err := c.sleep(ctx, wait); err != nil {
			return nil, nil, err
		}
	}

	return nil, nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, c.policy.MaxAttempts, lastErr)
}

// retryDelay decides whether err is retryable and how long to wait.
func (c *Client) retryDelay(attempt int, err error, back *Backoff) (time.Duration, bool) {
	step := time.Duration(attempt + 1)
	switch {
	case errors.Is(err, ErrGatewayTimeout):
		return step * c.policy.GatewayStep, true
	case errors.Is(err, ErrRateLimited):
		return step * c.policy.RateLimitStep, true
	case errors.Is(err, ErrTimeout):
		return step * c.policy.TimeoutStep, true
	}

	var se *StatusError
	if errors.As(err, &se) {
		return 0, false
	}
	return back.Next(), true
}

func (c *Client) post(ctx context.Context, query string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	return raw, nil
}

// transportError marks errors caused by the per-request deadline as ErrTimeout.
func (c *Client) transportError(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("send request: %w", err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
