package session

import (
	"net/http"

	"github.com/dmitrymomot/statekit/pkg/cookie"
)

// CookieTransport implements Transport using a single fixed cookie.
// The cookie carries no expiry, so it lives as long as the browser session.
type CookieTransport struct {
	cookieMgr     *cookie.Manager
	cookieName    string
	options       []cookie.Option
	secureCookies bool
}

// NewCookieTransport creates a new cookie-based transport
func NewCookieTransport(cookieMgr *cookie.Manager, cookieName string, opts ...cookie.Option) *CookieTransport {
	return &CookieTransport{
		cookieMgr:  cookieMgr,
		cookieName: cookieName,
		options:    opts,
	}
}

// NewCookieTransportWithSecurity creates a cookie transport that sets the Secure flag when secureCookies is true
func NewCookieTransportWithSecurity(cookieMgr *cookie.Manager, cookieName string, secureCookies bool, opts ...cookie.Option) *CookieTransport {
	t := NewCookieTransport(cookieMgr, cookieName, opts...)
	t.secureCookies = secureCookies
	return t
}

// GetToken reads the identity cookie. Signed cookies are verified when the
// cookie manager holds secrets.
func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	var (
		token string
		err   error
	)
	if t.cookieMgr.CanSign() {
		token, err = t.cookieMgr.GetSigned(r, t.cookieName)
	} else {
		token, err = t.cookieMgr.Get(r, t.cookieName)
	}
	if err != nil || token == "" {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// SetToken writes the identity cookie
func (t *CookieTransport) SetToken(w http.ResponseWriter, token string) error {
	opts := []cookie.Option{
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	}
	if t.secureCookies {
		opts = append(opts, cookie.WithSecure(true))
	}
	opts = append(opts, t.options...)

	if t.cookieMgr.CanSign() {
		return t.cookieMgr.SetSigned(w, t.cookieName, token, opts...)
	}
	return t.cookieMgr.Set(w, t.cookieName, token, opts...)
}

// IssuedToken returns the identity cookie already queued on w
func (t *CookieTransport) IssuedToken(w http.ResponseWriter) (string, bool) {
	if t.cookieMgr.CanSign() {
		return t.cookieMgr.IssuedSigned(w, t.cookieName)
	}
	return t.cookieMgr.Issued(w, t.cookieName)
}
