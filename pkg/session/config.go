package session

// Config holds session configuration
type Config struct {
	// CookieName is the name of the identity cookie (default: "sessionId")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sessionId"`

	// SecureCookies enables the Secure flag on the identity cookie (recommended for production)
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	// Shards is the number of lock shards in the default memory store
	Shards int `env:"SESSION_SHARDS" envDefault:"32"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName:    "sessionId",
		SecureCookies: false,
		Shards:        defaultShards,
	}
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	return New(append([]Option{WithConfig(cfg)}, opts...)...)
}
