package stateclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrymomot/statekit/pkg/logger"
	"github.com/dmitrymomot/statekit/pkg/session"
)

const (
	statePath      = "state"
	defaultTimeout = 10 * time.Second

	// DefaultMaxResponseSize bounds how much of a response body is read.
	// JSON escapes can grow a 1 MiB state up to six times on the wire.
	DefaultMaxResponseSize = 8 << 20
)

// Client reads and replaces the caller's state on a state server and keeps
// the last state it saw. The session cookie lives in the HTTP client's jar,
// so one Client is one session.
type Client struct {
	endpoint        string
	http            *http.Client
	logger          *slog.Logger
	maxResponseSize int64

	mu     sync.RWMutex
	cached *session.State
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client. It must carry a cookie jar for
// the identity to survive between calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxResponseSize sets the largest response body the client accepts.
// Non-positive values are ignored.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseSize = n
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.logger = log
		}
	}
}

// New creates a client for the server rooted at baseURL, e.g.
// "http://localhost:8080/". The default HTTP client has a cookie jar and an
// OpenTelemetry-instrumented transport.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		endpoint:        u.ResolveReference(&url.URL{Path: statePath}).String(),
		logger:          logger.Discard(),
		maxResponseSize: DefaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http = &http.Client{
			Jar:       jar,
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	c.logger = c.logger.With(logger.Component("stateclient"))

	return c, nil
}

// Get fetches the caller's state. The first call establishes the session.
func (c *Client) Get(ctx context.Context) (*session.State, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, http.StatusOK)
	if err != nil {
		return nil, err
	}

	st := &session.State{}
	if err := st.UnmarshalJSON(body); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = st.Clone()
	c.mu.Unlock()
	return st, nil
}

// Put replaces the caller's state with st. On success the cached state
// becomes st under the last known identity.
func (c *Client) Put(ctx context.Context, st *session.State) error {
	if st == nil {
		return ErrNilState
	}

	wire := st.Snapshot()
	if cached, ok := c.Cached(); ok && cached.ID() != "" {
		wire[session.IDKey] = cached.ID()
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wire); err != nil {
		return errors.Join(session.ErrSerialization, err)
	}
	payload := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(req, http.StatusNoContent); err != nil {
		return err
	}

	next := &session.State{}
	if err := next.UnmarshalJSON(payload); err != nil {
		return err
	}
	c.mu.Lock()
	c.cached = next
	c.mu.Unlock()
	return nil
}

// Cached returns a copy of the last state fetched or saved.
func (c *Client) Cached() (*session.State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached == nil {
		return nil, false
	}
	return c.cached.Clone(), true
}

func (c *Client) do(req *http.Request, want int) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxResponseSize {
		c.logger.WarnContext(req.Context(), "state response too large",
			slog.String("method", req.Method),
			logger.Status(resp.StatusCode),
			slog.Int64("limit", c.maxResponseSize),
		)
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxResponseSize)
	}

	if resp.StatusCode == want {
		return body, nil
	}

	apiErr := decodeAPIError(resp.StatusCode, body)
	c.logger.WarnContext(req.Context(), "state request failed",
		slog.String("method", req.Method),
		logger.Status(resp.StatusCode),
		slog.String("code", apiErr.Code),
	)
	if apiErr.Code == "session_not_found" {
		return nil, errors.Join(session.ErrSessionNotFound, apiErr)
	}
	return nil, apiErr
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
