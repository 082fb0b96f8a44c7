package utils

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// URLTools wraps the URL of the page a check fetched, so links found on
// that page can be made absolute against it.
type URLTools struct {
	URL *url.URL
}

func NewURLTools(raw string) (*URLTools, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse url %s: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %s has no host", raw)
	}

	return &URLTools{URL: u}, nil
}

// SiteKey reduces a network location (host[:port]) to the form used when
// deciding whether two links belong to the same site: lowercased, IDN
// converted to punycode and a leading "www." removed.
//
// Examples:
//
//	"WWW.Example.com"    → "example.com"
//	"www.example.com:81" → "example.com:81"
//	"bücher.de"          → "xn--bcher-kva.de"
func SiteKey(netloc string) string {
	host := strings.ToLower(strings.TrimSpace(netloc))
	port := ""
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		host, port = host[:i], host[i:]
	}
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}
	return strings.TrimPrefix(host, "www.") + port
}

// SameSite reports whether netloc names the same site as u's host.
func (u *URLTools) SameSite(netloc string) bool {
	return SiteKey(netloc) == SiteKey(u.URL.Host)
}

// Absolutize rewrites href so it points at the page's own site.
//
// A link with no network location is resolved against the page URL. A link
// whose network location differs from the page's (ignoring a leading
// "www.") keeps its path, query and fragment but takes the page's scheme
// and host. Links already on the page's site keep their host, taking the
// page's scheme when they are scheme-relative. Non-hierarchical links such
// as mailto: are returned unchanged.
//
// Examples (page http://example.com/x/y):
//
//	"/page"                      → "http://example.com/page"
//	"page"                       → "http://example.com/x/page"
//	"https://www.example.com/a"  → "https://www.example.com/a"
//	"//www.example.com/a"        → "http://www.example.com/a"
//	"https://other.org/a?b=1"    → "http://example.com/a?b=1"
func (u *URLTools) Absolutize(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("couldn't parse href %q: %w", href, err)
	}

	if ref.Host == "" {
		if ref.Opaque != "" {
			return ref.String(), nil
		}
		return u.URL.ResolveReference(ref).String(), nil
	}

	if u.SameSite(ref.Host) {
		if ref.Scheme == "" {
			return u.URL.ResolveReference(ref).String(), nil
		}
		return ref.String(), nil
	}

	out := *ref
	out.Scheme = u.URL.Scheme
	out.Host = u.URL.Host
	out.User = nil
	if out.Path != "" && !strings.HasPrefix(out.Path, "/") {
		out.Path = "/" + out.Path
	}
	return out.String(), nil
}
