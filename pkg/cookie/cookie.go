package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const minSecretLength = 32

// Manager writes and reads cookies with a shared set of default attributes.
// Secrets are optional; without them only plain cookies are available.
type Manager struct {
	secrets  []string
	defaults Options
}

// New creates a cookie manager. Empty entries in secrets are ignored.
// Every remaining secret must be at least 32 characters long.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })

	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		secrets:  secrets,
		defaults: applyOptions(defaults, opts),
	}, nil
}

// CanSign reports whether the manager was configured with signing secrets.
func (m *Manager) CanSign() bool {
	return len(m.secrets) > 0
}

// Set writes a plain cookie to the response.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	if w == nil {
		return ErrNoResponse
	}
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
	return nil
}

// Get reads a plain cookie from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	if r == nil {
		return "", ErrNoRequest
	}
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Issued returns the value of a cookie already queued on the response by an
// earlier Set call during the same request. The last queued value wins and a
// queued Delete clears it.
func (m *Manager) Issued(w http.ResponseWriter, name string) (string, bool) {
	if w == nil {
		return "", false
	}
	var (
		value string
		found bool
	)
	for _, line := range w.Header().Values("Set-Cookie") {
		c, err := http.ParseSetCookie(line)
		if err != nil || c.Name != name {
			continue
		}
		if c.MaxAge < 0 {
			value, found = "", false
			continue
		}
		value, found = c.Value, true
	}
	return value, found
}

// Delete expires the cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	})
}

// SetSigned writes value together with an HMAC-SHA256 signature.
// The value itself stays readable by the client.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	if !m.CanSign() {
		return ErrNoSecret
	}
	return m.Set(w, name, m.sign(value), opts...)
}

// GetSigned reads a signed cookie and returns the original value.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if !m.CanSign() {
		return "", ErrNoSecret
	}
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(signed)
}

// IssuedSigned is Issued for cookies written with SetSigned.
func (m *Manager) IssuedSigned(w http.ResponseWriter, name string) (string, bool) {
	if !m.CanSign() {
		return "", false
	}
	signed, ok := m.Issued(w, name)
	if !ok {
		return "", false
	}
	value, err := m.verify(signed)
	if err != nil {
		return "", false
	}
	return value, true
}

func (m *Manager) sign(value string) string {
	return base64.URLEncoding.EncodeToString([]byte(value)) + "|" + signature(m.secrets[0], []byte(value))
}

func (m *Manager) verify(signed string) (string, error) {
	encodedValue, sig, ok := strings.Cut(signed, "|")
	if !ok {
		return "", ErrInvalidFormat
	}

	value, err := base64.URLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}

	// Older secrets stay valid for reading during key rotation.
	for _, secret := range m.secrets {
		if subtle.ConstantTimeCompare([]byte(sig), []byte(signature(secret, value))) == 1 {
			return string(value), nil
		}
	}

	return "", ErrInvalidSignature
}

func signature(secret string, value []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(value)
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}
