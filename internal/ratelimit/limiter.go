// Package ratelimit keeps downloads polite towards each game site.
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// Defaults used when NewDomainLimiter receives non-positive values
const (
	DefaultRPS   = 2.0
	DefaultBurst = 4
)

// RateLimiter blocks requests until the target site accepts another one.
type RateLimiter interface {
	// Wait blocks until a request for rawURL may proceed or ctx is done.
	Wait(ctx context.Context, rawURL string) error
	// Allow reports whether a request for rawURL may proceed right now.
	Allow(rawURL string) bool
}

// DomainLimiter keeps one token bucket per site. "www.example.org" and
// "example.org" share a bucket. Safe for concurrent use.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter creates a limiter allowing rps requests per second per
// site with the given burst.
func NewDomainLimiter(rps float64, burst int) *DomainLimiter {
	if rps <= 0 {
		rps = DefaultRPS
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(rps),
		burst:    burst,
	}
}

// Wait implements RateLimiter. Unparseable URLs are let through.
func (dl *DomainLimiter) Wait(ctx context.Context, rawURL string) error {
	site := SiteKey(rawURL)
	if site == "" {
		return nil
	}
	return dl.bucket(site).Wait(ctx)
}

// Allow implements RateLimiter
func (dl *DomainLimiter) Allow(rawURL string) bool {
	site := SiteKey(rawURL)
	if site == "" {
		return true
	}
	return dl.bucket(site).Allow()
}

// Sites returns how many sites currently own a bucket
func (dl *DomainLimiter) Sites() int {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return len(dl.limiters)
}

func (dl *DomainLimiter) bucket(site string) *rate.Limiter {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	l, ok := dl.limiters[site]
	if !ok {
		l = rate.NewLimiter(dl.perHost, dl.burst)
		dl.limiters[site] = l
	}
	return l
}

// SiteKey returns the lower-cased host of rawURL without port or "www."
func SiteKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
