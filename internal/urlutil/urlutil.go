// internal/urlutil/urlutil.go
package urlutil

import (
	"net/url"
	"strings"
)

// Normalize trims whitespace and ensures the URL carries an http(s) scheme,
// defaulting to https. Empty input stays empty; it is not an error.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// Domain extracts the lowercased host from a URL, stripping a leading "www."
// and any port. Malformed input yields the empty string; callers treat an
// empty domain as "no evidence", never as a fatal condition.
func Domain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// Resolve turns a possibly-relative href into an absolute URL against base.
// On any parse failure it returns href unchanged.
func Resolve(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// SwitchScheme flips https to http and vice versa, used when the first
// protocol attempt fails outright.
func SwitchScheme(rawURL string) string {
	if strings.HasPrefix(rawURL, "https://") {
		return "http://" + strings.TrimPrefix(rawURL, "https://")
	}
	return "https://" + strings.TrimPrefix(rawURL, "http://")
}
