package ratelimiter

import (
	"context"
	"time"
)

// Store keeps token bucket state for rate limit keys.
type Store interface {
	// ConsumeTokens takes tokens from the bucket for key and returns what is
	// left and when the next refill happens. A negative remainder means deny.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}
