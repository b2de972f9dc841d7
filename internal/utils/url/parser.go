package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned for URLs that cannot designate a game
var ErrInvalidURL = errors.New("invalid URL")

// ValidateURL requires an absolute URL with both a scheme and a host
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if parsed.Scheme == "" {
		return fmt.Errorf("%w: missing scheme", ErrInvalidURL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return nil
}

// OnOrigin rebuilds a link without host on the origin of base. The link
// path is appended to the origin root, ignoring the directory of base.
// Links that carry a host are returned unchanged.
func OnOrigin(base, href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Host != "" {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.Scheme + "://" + baseURL.Host + "/" + strings.TrimPrefix(u.Path, "/")
}

// Normalize trims the URL and adds https:// when the scheme is missing
// but the text starts with a host name
func Normalize(urlStr string) string {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" || strings.Contains(urlStr, "://") {
		return urlStr
	}
	if host, _, _ := strings.Cut(urlStr, "/"); strings.Contains(host, ".") {
		return "https://" + urlStr
	}
	return urlStr
}
