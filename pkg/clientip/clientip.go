package clientip

import (
	"net"
	"net/http"
	"strings"
)

const headerForwardedFor = "X-Forwarded-For"

// Resolver extracts the client address from a request. Forwarding headers
// are consulted only when trusted, in the order given; RemoteAddr is the
// fallback.
type Resolver struct {
	headers []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTrustedHeaders trusts the given headers, highest priority first.
// X-Forwarded-For yields its first valid entry. Only enable headers your
// proxy overwrites; clients can set any of them.
func WithTrustedHeaders(headers ...string) Option {
	return func(r *Resolver) {
		for _, h := range headers {
			if h = strings.TrimSpace(h); h != "" {
				r.headers = append(r.headers, http.CanonicalHeaderKey(h))
			}
		}
	}
}

// New creates a Resolver. Without options only RemoteAddr is used.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromConfig creates a Resolver trusting cfg.TrustedHeaders.
func NewFromConfig(cfg Config) *Resolver {
	return New(WithTrustedHeaders(cfg.TrustedHeaders...))
}

// IP returns the normalized client IP, or "" when none is valid.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		if h == headerForwardedFor {
			for part := range strings.SplitSeq(v, ",") {
				if ip := parseIP(part); ip != "" {
					return ip
				}
			}
			continue
		}
		if ip := parseIP(v); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
