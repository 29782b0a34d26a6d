// Package requestid tags every HTTP request with an identifier carried in the
// X-Request-ID header and the request context, and exposes a logger extractor
// so the id shows up in request-scoped log records.
package requestid
