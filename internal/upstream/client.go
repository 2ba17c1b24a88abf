// ViralAI - Social Content Generation Backend
// Copyright 2026 NetRider88
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/NetRider88/viralAI

// Package upstream is the shared plumbing for calls to third-party HTTP APIs:
// a rate-limited, circuit-broken client with 429 backoff, and the error
// taxonomy callers use to decide between degrading and failing.
//
// Resilience per Client:
//   - Outbound limiter: golang.org/x/time/rate token bucket
//   - HTTP 429: exponential backoff (base, 2x, 4x...) honoring Retry-After,
//     bounded by MaxRetries and by the caller's context
//   - Circuit breaker: sony/gobreaker, tripping on transport errors and 5xx
//   - Error bodies are read through a 64KB LimitReader
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/NetRider88/viralAI/internal/config"
	"github.com/NetRider88/viralAI/internal/logging"
	"github.com/NetRider88/viralAI/internal/metrics"
)

const (
	// maxErrorBodySize limits how much of a failed response is kept.
	maxErrorBodySize = 64 * 1024

	// maxResponseBodySize limits successful responses.
	maxResponseBodySize = 16 * 1024 * 1024

	maxRetryDelay = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	Name              string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	RetryBaseDelay    time.Duration
	Headers           map[string]string
	Breaker           BreakerSettings
	HTTPClient        *http.Client
}

// OptionsFromConfig builds Options from a config client section.
func OptionsFromConfig(name, baseURL string, c config.ClientConfig) Options {
	return Options{
		Name:              name,
		BaseURL:           baseURL,
		Timeout:           c.Timeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
		MaxRetries:        c.MaxRetries,
	}
}

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client performs requests against one third-party API. Safe for concurrent
// use.
type Client struct {
	name           string
	baseURL        string
	http           *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	headers        map[string]string
	breaker        *Breaker[*Response]
}

// NewClient creates a Client. A zero RequestsPerSecond disables the limiter.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	retryBase := opts.RetryBaseDelay
	if retryBase <= 0 {
		retryBase = time.Second
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Client{
		name:           opts.Name,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           httpClient,
		limiter:        limiter,
		maxRetries:     opts.MaxRetries,
		retryBaseDelay: retryBase,
		headers:        headers,
		breaker:        NewBreaker[*Response](opts.Name, opts.Breaker),
	}
}

// Name returns the upstream name used in errors and metrics.
func (c *Client) Name() string { return c.name }

// BreakerState returns the circuit breaker state.
func (c *Client) BreakerState() string { return c.breaker.State() }

// Get issues a GET to path (relative to the base URL) with query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// PostJSON issues a POST with a JSON-encoded body.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", c.name, err)
	}
	return c.Do(ctx, http.MethodPost, path, nil, payload)
}

// Do performs one logical request through the breaker, retrying on 429.
// Non-2xx responses are returned as *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body []byte) (*Response, error) {
	reqURL := c.resolve(path, query)
	return c.breaker.Execute(func() (*Response, error) {
		return c.doWithRetry(ctx, method, reqURL, body)
	})
}

func (c *Client) resolve(path string, query url.Values) string {
	u := c.baseURL
	switch {
	case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
		u = path
	case path != "":
		u += "/" + strings.TrimLeft(path, "/")
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

func (c *Client) doWithRetry(ctx context.Context, method, reqURL string, body []byte) (*Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", c.name, ErrTransport, err)
		}

		resp, err := c.send(ctx, method, reqURL, body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		statusErr := &StatusError{Service: c.name, StatusCode: resp.StatusCode, Body: string(resp.Body)}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= c.maxRetries {
			return nil, statusErr
		}

		delay := c.backoff(attempt, resp.Header.Get("Retry-After"))
		logging.Ctx(ctx).Debug().
			Str("upstream", c.name).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("rate limited by upstream, backing off")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%s: %w: %w", c.name, ErrTransport, ctx.Err())
		}
	}
}

func (c *Client) send(ctx context.Context, method, reqURL string, body []byte) (*Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	httpResp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstream(c.name, 0, time.Since(start))
		return nil, fmt.Errorf("%s: %w: %w", c.name, ErrTransport, err)
	}
	defer httpResp.Body.Close()
	metrics.RecordUpstream(c.name, httpResp.StatusCode, time.Since(start))

	var data []byte
	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		data, err = io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBodySize))
		if err != nil {
			return nil, fmt.Errorf("%s: %w: read body: %w", c.name, ErrTransport, err)
		}
	} else {
		data = readBodyForError(httpResp.Body)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// backoff returns base * 2^attempt, or the Retry-After seconds when the
// upstream sent them, capped at maxRetryDelay.
func (c *Client) backoff(attempt int, retryAfter string) time.Duration {
	delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
	if retryAfter != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
		}
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

// readBodyForError reads at most 64KB of an error response.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// DecodeJSON unmarshals a response body into T.
func DecodeJSON[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, fmt.Errorf("%w: nil response", ErrDecode)
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return out, nil
}

// GetJSON performs a GET and decodes the JSON body into T.
func GetJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := DecodeJSON[T](resp)
	if err != nil {
		return out, fmt.Errorf("%s: %w", c.name, err)
	}
	return out, nil
}

// PostJSONDecode performs a JSON POST and decodes the JSON body into T.
func PostJSONDecode[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	resp, err := c.PostJSON(ctx, path, body)
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := DecodeJSON[T](resp)
	if err != nil {
		return out, fmt.Errorf("%s: %w", c.name, err)
	}
	return out, nil
}
