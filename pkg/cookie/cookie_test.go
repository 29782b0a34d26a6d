package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/cookie"
)

const testSecret = "this-is-a-very-long-secret-key-32-chars-long"

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secrets []string
		wantErr error
		canSign bool
	}{
		{name: "no secrets", secrets: nil},
		{name: "only empty secrets", secrets: []string{"", ""}},
		{name: "secret too short", secrets: []string{"short"}, wantErr: cookie.ErrSecretTooShort},
		{name: "valid secret", secrets: []string{testSecret}, canSign: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := cookie.New(tt.secrets)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.canSign, m.CanSign())
		})
	}
}

func TestManager_SetGet(t *testing.T) {
	t.Parallel()

	m, err := cookie.New(nil)
	require.NoError(t, err)

	t.Run("round trip with defaults", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "sessionId", "abc"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "sessionId", c.Name)
		assert.Equal(t, "abc", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Zero(t, c.MaxAge)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)
		value, err := m.Get(r, "sessionId")
		require.NoError(t, err)
		assert.Equal(t, "abc", value)
	})

	t.Run("per call options override defaults", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, m.Set(w, "n", "v", cookie.WithSecure(true), cookie.WithPath("/api"), cookie.WithMaxAge(60)))

		c := w.Result().Cookies()[0]
		assert.True(t, c.Secure)
		assert.Equal(t, "/api", c.Path)
		assert.Equal(t, 60, c.MaxAge)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := m.Get(r, "sessionId")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})

	t.Run("nil request and response", func(t *testing.T) {
		t.Parallel()

		_, err := m.Get(nil, "sessionId")
		assert.ErrorIs(t, err, cookie.ErrNoRequest)
		assert.ErrorIs(t, m.Set(nil, "sessionId", "v"), cookie.ErrNoResponse)
	})
}

func TestManager_Issued(t *testing.T) {
	t.Parallel()

	m, err := cookie.New(nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	_, ok := m.Issued(w, "sessionId")
	assert.False(t, ok)

	require.NoError(t, m.Set(w, "other", "x"))
	require.NoError(t, m.Set(w, "sessionId", "first"))
	value, ok := m.Issued(w, "sessionId")
	require.True(t, ok)
	assert.Equal(t, "first", value)

	m.Delete(w, "sessionId")
	_, ok = m.Issued(w, "sessionId")
	assert.False(t, ok)

	_, ok = m.Issued(nil, "sessionId")
	assert.False(t, ok)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m, err := cookie.New(nil, cookie.WithDomain("example.com"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	m.Delete(w, "sessionId")

	c := w.Result().Cookies()[0]
	assert.Equal(t, "sessionId", c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	assert.Equal(t, "example.com", c.Domain)
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "sessionId", "token-1"))

		c := w.Result().Cookies()[0]
		assert.NotEqual(t, "token-1", c.Value)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)
		value, err := m.GetSigned(r, "sessionId")
		require.NoError(t, err)
		assert.Equal(t, "token-1", value)

		issued, ok := m.IssuedSigned(w, "sessionId")
		require.True(t, ok)
		assert.Equal(t, "token-1", issued)
	})

	t.Run("tampered signature", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "sessionId", "token-1"))
		c := w.Result().Cookies()[0]

		encoded, _, _ := strings.Cut(c.Value, "|")
		c.Value = encoded + "|bogus"

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)
		_, err := m.GetSigned(r, "sessionId")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "sessionId", Value: "no-separator"})
		_, err := m.GetSigned(r, "sessionId")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("key rotation keeps old cookies valid", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "sessionId", "token-2"))

		rotated, err := cookie.New([]string{strings.Repeat("n", 40), testSecret})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(w.Result().Cookies()[0])
		value, err := rotated.GetSigned(r, "sessionId")
		require.NoError(t, err)
		assert.Equal(t, "token-2", value)
	})

	t.Run("unsigned manager refuses signed operations", func(t *testing.T) {
		t.Parallel()

		plain, err := cookie.New(nil)
		require.NoError(t, err)

		assert.ErrorIs(t, plain.SetSigned(httptest.NewRecorder(), "n", "v"), cookie.ErrNoSecret)
		_, err = plain.GetSigned(httptest.NewRequest(http.MethodGet, "/", nil), "n")
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := cookie.DefaultConfig()
	cfg.Secrets = " " + testSecret + " , "
	cfg.Secure = true
	cfg.Domain = "example.com"

	m, err := cookie.NewFromConfig(cfg)
	require.NoError(t, err)
	assert.True(t, m.CanSign())

	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, "n", "v"))
	c := w.Result().Cookies()[0]
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "example.com", c.Domain)

	cfg.Secrets = "short"
	_, err = cookie.NewFromConfig(cfg)
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)
}
