package clientip

// Config lists the forwarding headers set by the deployment's proxy, e.g.
// CLIENTIP_TRUSTED_HEADERS=CF-Connecting-IP,X-Forwarded-For.
type Config struct {
	TrustedHeaders []string `env:"CLIENTIP_TRUSTED_HEADERS" envSeparator:","`
}
