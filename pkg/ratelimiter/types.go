package ratelimiter

import "time"

// Result contains the result of a rate limit check.
type Result struct {
	Limit     int       // Maximum tokens (bucket capacity)
	Remaining int       // Tokens remaining; negative when denied
	ResetAt   time.Time // Time of the next refill
}

// Allowed reports whether the request fit in the bucket.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the next request, or 0 if the
// request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(0, time.Until(r.ResetAt))
}

// Config defines the token bucket configuration.
type Config struct {
	Enabled        bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"120"`       // burst size
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"60"`     // tokens added per interval
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1m"` // how often tokens are added
}
