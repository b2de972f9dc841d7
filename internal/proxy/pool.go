// Package proxy rotates downloads over a list of proxies and sidelines
// the ones that stop answering.
package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// Pool manages a list of proxies with rotation and health tracking
type Pool struct {
	proxies  []*url.URL
	index    int
	mu       sync.Mutex
	failed   map[string]time.Time
	cooldown time.Duration
}

// Parse splits a comma separated proxy list. Accepted schemes are http,
// https and socks5.
func Parse(list string) ([]*url.URL, error) {
	var out []*url.URL
	for _, raw := range strings.Split(list, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", raw)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
		}
		out = append(out, u)
	}
	return out, nil
}

// NewPool creates a Pool over proxies
func NewPool(proxies []*url.URL) *Pool {
	return &Pool{
		proxies:  proxies,
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
	}
}

// Len returns the number of proxies in the pool
func (p *Pool) Len() int {
	return len(p.proxies)
}

// Next returns the next healthy proxy. When every proxy failed recently
// the rotation continues anyway. Returns nil for an empty pool.
func (p *Pool) Next() *url.URL {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return nil
	}

	start := p.index
	for {
		proxy := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		key := proxy.String()
		if failTime, ok := p.failed[key]; ok {
			if time.Since(failTime) < p.cooldown {
				if p.index == start {
					return proxy
				}
				continue
			}
			delete(p.failed, key)
		}
		return proxy
	}
}

// MarkFailed sidelines proxy for the cooldown period
func (p *Pool) MarkFailed(proxy *url.URL) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy.String()] = time.Now()
}

// MarkHealthy clears the failure status of proxy
func (p *Pool) MarkHealthy(proxy *url.URL) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy.String())
}

// ProxyFunc picks a proxy per request, in the form expected by
// http.Transport and websocket.Dialer.
func (p *Pool) ProxyFunc(*http.Request) (*url.URL, error) {
	return p.Next(), nil
}

// Transport returns a RoundTripper sending each request through the next
// proxy. base is cloned once per proxy. A proxy whose round trip fails is
// marked failed; a successful one is marked healthy.
func (p *Pool) Transport(base *http.Transport) *Transport {
	t := &Transport{pool: p, byProxy: make(map[string]*http.Transport, len(p.proxies))}
	for _, u := range p.proxies {
		clone := base.Clone()
		clone.Proxy = http.ProxyURL(u)
		t.byProxy[u.String()] = clone
	}
	return t
}

// Transport is the RoundTripper returned by Pool.Transport
type Transport struct {
	pool    *Pool
	byProxy map[string]*http.Transport
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	u := t.pool.Next()
	if u == nil {
		return http.DefaultTransport.RoundTrip(req)
	}
	resp, err := t.byProxy[u.String()].RoundTrip(req)
	if err != nil {
		if req.Context().Err() == nil {
			log.Debug().Err(err).Str("proxy", u.Redacted()).Msg("Proxy failed")
			t.pool.MarkFailed(u)
		}
		return nil, err
	}
	t.pool.MarkHealthy(u)
	return resp, nil
}

// CloseIdleConnections closes the idle connections of every proxy
func (t *Transport) CloseIdleConnections() {
	for _, tr := range t.byProxy {
		tr.CloseIdleConnections()
	}
}
