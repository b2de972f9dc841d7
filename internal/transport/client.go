// Package transport downloads pages and game files and performs the
// websocket exchange used by realtime chess servers.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/pgnfetch/internal/ratelimit"
)

// MaxFetchMany caps the number of downloads a single FetchMany issues.
const MaxFetchMany = 11

var (
	ErrNoData     = errors.New("no data")
	ErrDecode     = errors.New("failed to decode response")
	ErrNetwork    = errors.New("network error")
	ErrInvalidURL = errors.New("invalid URL")
	ErrStatus     = errors.New("unexpected HTTP status")
)

// StatusError reports a response outside the 2xx range. It matches
// ErrStatus.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrStatus, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// Request describes one GET download.
type Request struct {
	URL string
	// SpoofUserAgent sends the browser-like agent instead of the tool agent.
	SpoofUserAgent bool
	Headers        map[string]string
}

// Response is a decoded download.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
	Elapsed     time.Duration
}

// Client performs downloads with per-host politeness.
type Client struct {
	http      *http.Client
	limiter   ratelimit.RateLimiter
	userAgent string
	spoofed   string

	headers   map[string]string

	socketTimeout time.Duration
	proxy         func(*http.Request) (*url.URL, error)
}

// New creates a Client. An empty userAgent keeps the Go default.
func New(client *http.Client, lim ratelimit.RateLimiter, userAgent string) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:      client,
		limiter:   lim,
		userAgent: userAgent,
		spoofed:   BrowserUserAgent(),

		socketTimeout: DefaultSocketTimeout,
		proxy:         http.ProxyFromEnvironment,
	}
}

// WithHeaders adds headers to every download. Request headers take
// precedence.
func (c *Client) WithHeaders(headers map[string]string) *Client {
	c.headers = headers
	return c
}

// WithSocket sets the websocket timeout used when the context has no
// deadline and the proxy selector of websocket dials. Zero values keep
// the defaults.
func (c *Client) WithSocket(timeout time.Duration, proxy func(*http.Request) (*url.URL, error)) *Client {
	if timeout > 0 {
		c.socketTimeout = timeout
	}
	if proxy != nil {
		c.proxy = proxy
	}
	return c
}

// SpoofedUserAgent returns the browser-like agent sent on spoofed requests.
func (c *Client) SpoofedUserAgent() string {
	return c.spoofed
}

// Do downloads and decodes a single URL. A status outside 2xx is a
// *StatusError. An empty decoded body is ErrNoData.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	if r.URL == "" {
		return nil, ErrInvalidURL
	}
	start := time.Now()

	log.Debug().
		Str("url", r.URL).
		Bool("spoof", r.SpoofUserAgent).
		Msg("Downloading")

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, r.URL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	switch {
	case r.SpoofUserAgent:
		req.Header.Set("User-Agent", c.spoofed)
	case c.userAgent != "":
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", r.URL).Msg("Download failed")
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().
			Str("url", r.URL).
			Int("status", resp.StatusCode).
			Msg("Download refused")
		return nil, &StatusError{URL: r.URL, Code: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug().Err(err).Str("url", r.URL).Msg("Read failed")
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	contentType, params, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	body, err := DecodeBody(raw, params["charset"])
	if err != nil {
		log.Debug().Err(err).Str("url", r.URL).Msg("Error in the decoding of the data")
		return nil, err
	}

	elapsed := time.Since(start)
	log.Debug().
		Str("url", r.URL).
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("elapsed", elapsed).
		Msg("Download completed")

	if body == "" {
		return nil, ErrNoData
	}
	return &Response{
		URL:         r.URL,
		StatusCode:  resp.StatusCode,
		ContentType: strings.ToLower(contentType),
		Body:        body,
		Elapsed:     elapsed,
	}, nil
}

// Fetch downloads rawURL and returns its decoded text.
func (c *Client) Fetch(ctx context.Context, rawURL string, spoof bool) (string, error) {
	resp, err := c.Do(ctx, Request{URL: rawURL, SpoofUserAgent: spoof})
	if err != nil {
		return "", err
	}
	return resp.Body, nil
}

// FetchMany downloads at most MaxFetchMany of urls, in order, and
// concatenates every non-empty result followed by a blank line. Failed
// downloads are skipped. ErrNoData is returned when nothing was collected.
func (c *Client) FetchMany(ctx context.Context, urls []string, spoof bool) (string, error) {
	var b strings.Builder
	for i, u := range urls {
		if i >= MaxFetchMany {
			break
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := c.Fetch(ctx, u, spoof)
		if err == nil && data != "" {
			b.WriteString(data)
			b.WriteString("\n\n")
		}
	}
	if b.Len() == 0 {
		return "", ErrNoData
	}
	return b.String(), nil
}
