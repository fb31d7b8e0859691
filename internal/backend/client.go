// Package backend is the HTTP client for the administration REST API.
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

	"github.com/rs/zerolog"
)

const maxListPages = 100

type Config struct {
	BaseURL          string
	Timeout          time.Duration
	BreakerFailures  int
	BreakerOpenAfter time.Duration
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *breaker
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base url %q must be absolute", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		breaker: newBreaker(cfg.BreakerFailures, cfg.BreakerOpenAfter),
		log:     log.With().Str("component", "backend").Logger(),
	}, nil
}

// BreakerState reports the circuit state for health output.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

type tokenKey struct{}

// WithToken attaches the bearer token used for every call made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path}
	if payload == nil {
		return req, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}
	req.body = bytes.NewReader(data)
	req.contentType = "application/json"
	return req, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	u := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimLeft(path, "/")})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// send performs one request and returns the raw body of a 2xx answer.
func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	token := tokenFrom(ctx)
	if token == "" {
		return nil, ErrNoToken
	}
	if err := c.breaker.allow(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.resolve(r.path, r.query), r.body)
	if err != nil {
		c.breaker.record(false)
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.breaker.record(false)
			return nil, err
		}
		c.breaker.record(true)
		c.log.Warn().Err(err).Str("method", r.method).Str("path", r.path).Msg("backend request failed")
		return nil, &FaultError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.record(true)
		return nil, &FaultError{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("backend call")

	switch {
	case resp.StatusCode >= 500:
		c.breaker.record(true)
		return nil, &FaultError{Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	case resp.StatusCode == http.StatusUnauthorized:
		c.breaker.record(false)
		return nil, ErrAuthExpired
	case resp.StatusCode >= 400:
		c.breaker.record(false)
		return nil, parseRejection(resp.StatusCode, body)
	}
	c.breaker.record(false)
	return body, nil
}

func (c *Client) call(ctx context.Context, r request, out any) error {
	body, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FaultError{Err: fmt.Errorf("decode %s %s: %w", r.method, r.path, err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	req, err := jsonRequest(http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return c.call(ctx, req, out)
}

func (c *Client) put(ctx context.Context, path string, payload, out any) error {
	req, err := jsonRequest(http.MethodPut, path, payload)
	if err != nil {
		return err
	}
	return c.call(ctx, req, out)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values) error {
	return c.call(ctx, request{method: http.MethodDelete, path: path, query: query}, nil)
}

type envelope[T any] struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

// list fetches every item of a collection. Both bare arrays and paginated
// {count, next, results} envelopes are accepted; next links are followed.
func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var items []T
	next := path
	for page := 0; next != ""; page++ {
		if page >= maxListPages {
			return nil, &FaultError{Err: fmt.Errorf("list %s: more than %d pages", path, maxListPages)}
		}
		q := query
		if page > 0 {
			q = nil
		}
		body, err := c.send(ctx, request{method: http.MethodGet, path: next, query: q})
		if err != nil {
			return nil, err
		}
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var bare []T
			if err := json.Unmarshal(trimmed, &bare); err != nil {
				return nil, &FaultError{Err: fmt.Errorf("decode list %s: %w", path, err)}
			}
			return append(items, bare...), nil
		}
		var env envelope[T]
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, &FaultError{Err: fmt.Errorf("decode list %s: %w", path, err)}
		}
		items = append(items, env.Results...)
		next = ""
		if env.Next != nil {
			next = *env.Next
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

func boolQuery(key string, value bool) url.Values {
	if !value {
		return nil
	}
	return url.Values{key: []string{"true"}}
}
