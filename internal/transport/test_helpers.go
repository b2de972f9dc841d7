package transport

import (
	"net/http"
	"net/url"
	"time"

	"github.com/law-makers/pgnfetch/internal/ratelimit"
)

// RewriteTransport sends every request to Target, keeping path and query.
// It lets code that builds absolute site URLs run against a local server.
type RewriteTransport struct {
	Target *url.URL
	Base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (rt *RewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("X-Original-Host", req.URL.Host)
	clone.URL.Scheme = rt.Target.Scheme
	clone.URL.Host = rt.Target.Host
	clone.Host = rt.Target.Host
	base := rt.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// NewTestClient creates a Client whose requests all reach serverURL
func NewTestClient(serverURL string) *Client {
	target, err := url.Parse(serverURL)
	if err != nil {
		panic(err)
	}
	return New(
		&http.Client{Timeout: 5 * time.Second, Transport: &RewriteTransport{Target: target}},
		ratelimit.NewDomainLimiter(1000, 1000),
		"TestFetcher/1.0",
	)
}
