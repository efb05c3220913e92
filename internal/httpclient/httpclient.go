// Package httpclient wraps outbound HTTP calls to the upstream users API.
// Every failed request is reported once through the injected notifier and then handed back
// to the caller unchanged; nothing here retries or swallows errors.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/maxviazov/users-admin/internal/notify"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 2048
)

// Config holds the settings shared by all calls of one client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// RequestHook runs on every outgoing request before it is sent.
type RequestHook func(req *http.Request) error

// Option customises a Client.
type Option func(*Client)

// WithNotifier sets where failures are reported. Without it failures are only logged.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLimiter throttles outgoing calls; a nil limiter disables throttling.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("module", "httpclient").Logger() }
}

// WithTransport replaces the underlying round tripper (tests, proxies).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithBeforeRequest registers a hook run before each request is sent.
// TODO: add the auth hook here once the upstream requires credentials (bearer token per upstream host).
func WithBeforeRequest(h RequestHook) Option {
	return func(c *Client) { c.beforeRequest = append(c.beforeRequest, h) }
}

// Client is safe for concurrent use.
type Client struct {
	baseURL       string
	http          *http.Client
	transport     http.RoundTripper
	notifier      notify.Notifier
	limiter       *rate.Limiter
	beforeRequest []RequestHook
	log           zerolog.Logger
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL:   cfg.BaseURL,
		transport: http.DefaultTransport,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c.http = &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: c.transport, log: c.log},
	}
	return c
}

// BaseURL returns the upstream base the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// NewRequest joins the base URL with relPath and encodes query.
// relPath must not carry a query string; path.Join would mangle it.
func (c *Client) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain query string (use query parameter instead): %s", relPath)
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("httpclient: invalid base url: %w", err)
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if len(query) > 0 {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

// Do sends req. A transport error or a non-2xx status is notified once and returned as is;
// on a non-2xx status the response body has already been drained and closed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.do(req)
	if err != nil {
		c.fail(req.Context(), err)
		return nil, err
	}
	return resp, nil
}

// DoJSON sends in (when non-nil) as a JSON body and decodes a 2xx response into out (when non-nil).
// Building, sending and decoding failures are notified once, together.
func (c *Client) DoJSON(ctx context.Context, method, relPath string, query url.Values, in, out any) error {
	err := c.doJSON(ctx, method, relPath, query, in, out)
	if err != nil {
		c.fail(ctx, err)
	}
	return err
}

func (c *Client) doJSON(ctx context.Context, method, relPath string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.NewRequest(ctx, method, relPath, query, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("httpclient: decode %s %s: %w", method, req.URL.Redacted(), err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("httpclient: rate limit: %w", err)
		}
	}
	for _, h := range c.beforeRequest {
		if err := h(req); err != nil {
			return nil, fmt.Errorf("httpclient: before request: %w", err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	return resp, nil
}

// fail is the single place a failure turns into a user notification.
func (c *Client) fail(ctx context.Context, err error) {
	if c.notifier == nil || isSilent(ctx) {
		return
	}
	c.notifier.Notify(ctx, notify.Notification{Title: notify.TitleError, Message: err.Error()})
}

type silentKey struct{}

// Silent marks ctx so failures of requests made with it are not notified.
// Health probes use it; user-driven requests never should.
func Silent(ctx context.Context) context.Context {
	return context.WithValue(ctx, silentKey{}, true)
}

func isSilent(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(silentKey{}).(bool)
	return v
}
