// Package ratelimiter implements token bucket rate limiting.
//
// A Bucket holds a Config (capacity, refill rate and interval) and keeps
// per-key state in a Store. MemoryStore is the in-process store; it sweeps
// idle buckets in the background until Close.
//
// Middleware applies a limiter to HTTP requests keyed by a KeyFunc, sets the
// X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset headers and,
// when a request is denied, Retry-After:
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//	bucket, err := ratelimiter.NewBucket(store, cfg)
//	r.Use(ratelimiter.Middleware(bucket, func(r *http.Request) string {
//		return clientip.FromContext(r.Context())
//	}))
package ratelimiter
