// Package api implements the REST client for the TapMap backend.
//
// Every call goes through Do, which normalizes the server's response
// envelope, applies a bounded timeout, attaches the bearer token for
// authenticated endpoints, retries transient network failures once, and
// routes all traffic through a circuit breaker. Expected HTTP-level
// failures never surface as raw transport errors: callers receive either
// a parsed envelope or one of the classified errors from errors.go.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tapmap-app/tapmap/internal/logging"
)

// Envelope is the uniform response shape of the TapMap API.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Decode unmarshals the envelope's data payload into v.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return errors.New("response has no data")
	}
	return json.Unmarshal(e.Data, v)
}

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func(ctx context.Context) string

// Config holds client tuning knobs.
type Config struct {
	BaseURL      string
	Timeout      time.Duration // per-request bound, including body read
	MaxRetries   int           // transport-error retries only, never 5xx
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:      baseURL,
		Timeout:      15 * time.Second,
		MaxRetries:   1,
		RetryWaitMin: 250 * time.Millisecond,
		RetryWaitMax: time.Second,
	}
}

// Client is the TapMap REST client.
type Client struct {
	cfg            Config
	httpClient     *http.Client
	log            logging.Logger
	tokens         TokenSource
	onUnauthorized func()
	breaker        *breaker
}

// New constructs a Client. The token source and 401 hook are wired later by
// the auth service, which owns the credentials.
func New(cfg Config, log logging.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Transport: transport},
		log:        log,
		breaker:    newBreaker(defaultBreakerConfig("tapmap-api"), log),
	}
}

// SetTokenSource installs the bearer token supplier.
func (c *Client) SetTokenSource(ts TokenSource) { c.tokens = ts }

// SetOnUnauthorized installs the hook invoked on any HTTP 401. A 401 means
// the server has unilaterally revoked the session, so the hook is expected
// to invalidate locally cached credentials.
func (c *Client) SetOnUnauthorized(fn func()) { c.onUnauthorized = fn }

type outcome struct {
	status   int
	envelope *Envelope
}

// Do executes method path against the API and returns the parsed envelope.
//
// body, when non-nil, is JSON-encoded. authed attaches the bearer token if
// one is available. Non-2xx statuses are returned as classified errors,
// never as envelopes; a 2xx envelope with Success=false is returned as-is
// for the caller to interpret (token validation relies on this).
func (c *Client) Do(ctx context.Context, method, path string, body any, authed bool) (*Envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	reqID := uuid.NewString()
	start := time.Now()

	res, err := c.breaker.execute(func() (*outcome, error) {
		return c.attempt(ctx, method, path, payload, authed)
	})

	if err != nil {
		classified := c.classify(err)
		c.log.Warn(ctx, "request failed",
			"req_id", reqID, "method", method, "path", path,
			"elapsed", time.Since(start), "error", classified)
		return nil, classified
	}

	c.log.Debug(ctx, "request done",
		"req_id", reqID, "method", method, "path", path,
		"status", res.status, "elapsed", time.Since(start))

	msg := res.envelope.Message
	if msg == "" {
		msg = http.StatusText(res.status)
	}

	switch {
	case res.status == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case res.status < 200 || res.status > 299:
		return nil, &Error{Status: res.status, Message: msg}
	}

	return res.envelope, nil
}

// attempt runs the request loop: one pass plus MaxRetries extra passes for
// retryable network errors. 5xx responses are returned as *Error without
// retry so the breaker counts them as failures.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, authed bool) (*outcome, error) {
	var lastErr error

	for i := 0; i <= c.cfg.MaxRetries; i++ {
		if i > 0 {
			wait := c.cfg.RetryWaitMin * time.Duration(1<<uint(i-1))
			if wait > c.cfg.RetryWaitMax {
				wait = c.cfg.RetryWaitMax
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := c.newRequest(ctx, method, path, payload, authed)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isRetryable(err) && i < c.cfg.MaxRetries {
				lastErr = err
				continue
			}
			return nil, err
		}

		env, msg := readEnvelope(resp)
		if resp.StatusCode >= 500 {
			return nil, &Error{Status: resp.StatusCode, Message: msg}
		}
		return &outcome{status: resp.StatusCode, envelope: env}, nil
	}

	return nil, lastErr
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload []byte, authed bool) (*http.Request, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if authed && c.tokens != nil {
		if token := c.tokens(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// readEnvelope consumes and closes the response body. Bodies that are not
// valid envelope JSON degrade to an empty envelope plus the status text, so
// misbehaving intermediaries cannot crash the caller.
func readEnvelope(resp *http.Response) (*Envelope, string) {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	env := &Envelope{}
	if err == nil && len(raw) > 0 {
		if json.Unmarshal(raw, env) != nil {
			env = &Envelope{}
		}
	}

	msg := env.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return env, msg
}

// classify maps low-level failures onto the package's sentinel errors.
func (c *Client) classify(err error) error {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, errBreakerOpen):
		return fmt.Errorf("%w: too many recent failures", ErrUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
