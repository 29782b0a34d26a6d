package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/statekit/pkg/cookie"
)

// Manager joins the identity resolver and the store into request-scoped
// Load and Save operations.
type Manager struct {
	store           Store
	transport       Transport
	resolver        *Resolver
	resolverOptions []ResolverOption
	config          Config
	cookieManager   *cookie.Manager
	cookieOptions   []cookie.Option
	logger          *slog.Logger
}

// New creates a new session manager with the given options.
// Without WithStore a MemoryStore is created; without WithTransport a plain
// cookie transport named after Config.CookieName is used.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.config.CookieName == "" {
		m.config.CookieName = DefaultConfig().CookieName
	}

	if m.store == nil {
		m.store = NewMemoryStore(WithShards(m.config.Shards))
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			// A manager without secrets cannot fail to build.
			m.cookieManager, _ = cookie.New(nil)
		}
		m.transport = NewCookieTransportWithSecurity(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	m.resolver = NewResolver(m.transport, m.resolverOptions...)

	return m
}

// Store returns the underlying store
func (m *Manager) Store() Store {
	return m.store
}

// Identity resolves the caller's session identity
func (m *Manager) Identity(w http.ResponseWriter, r *http.Request) (string, error) {
	return m.resolver.Resolve(w, r)
}

// Load returns the caller's state, creating it on first contact
func (m *Manager) Load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*State, error) {
	id, err := m.Identity(w, r)
	if err != nil {
		return nil, err
	}
	return m.store.Get(ctx, id)
}

// Save replaces the caller's state with next
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, r *http.Request, next *State) error {
	id, err := m.Identity(w, r)
	if err != nil {
		return err
	}
	return m.store.Put(ctx, id, next)
}

// Ping reports whether the store can serve requests. Stores without a Ping
// method are always ready.
func (m *Manager) Ping(ctx context.Context) error {
	if p, ok := m.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close shuts the store down
func (m *Manager) Close() error {
	return m.store.Close()
}
