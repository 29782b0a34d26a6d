package session

import (
	"log/slog"

	"github.com/dmitrymomot/statekit/pkg/cookie"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithStore sets a custom session store
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithTransport sets a custom identity transport
func WithTransport(transport Transport) Option {
	return func(m *Manager) {
		m.transport = transport
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieName sets the identity cookie name
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithCookieManager sets the cookie manager for the default cookie transport
func WithCookieManager(cookieMgr *cookie.Manager, opts ...cookie.Option) Option {
	return func(m *Manager) {
		m.cookieManager = cookieMgr
		m.cookieOptions = opts
	}
}

// WithResolverOptions passes options to the default resolver
func WithResolverOptions(opts ...ResolverOption) Option {
	return func(m *Manager) {
		m.resolverOptions = append(m.resolverOptions, opts...)
	}
}

// WithLogger sets the logger used by the session middleware
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}
