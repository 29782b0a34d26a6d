package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
)

// tokenBytes gives 128-bit identities.
const tokenBytes = 16

// TokenGenerator mints a new session identity.
type TokenGenerator func() (string, error)

// Resolver turns an inbound request into a stable per-client identity,
// minting one and handing it to the Transport when the client has none.
type Resolver struct {
	transport Transport
	generate  TokenGenerator
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTokenGenerator replaces the default random token generator.
func WithTokenGenerator(fn TokenGenerator) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.generate = fn
		}
	}
}

// NewResolver creates a resolver on top of transport.
func NewResolver(transport Transport, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		transport: transport,
		generate:  generateToken,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the client's identity. It checks the identity already
// stored in the request context, then the request cookie, then a cookie
// queued on the response earlier in this request. Only when all three are
// absent is a new identity minted and its cookie written, once.
func (res *Resolver) Resolve(w http.ResponseWriter, r *http.Request) (string, error) {
	if w == nil || r == nil {
		return "", ErrContextUnavailable
	}

	if id, ok := IdentityFromContext(r.Context()); ok {
		return id, nil
	}

	if token, err := res.transport.GetToken(r); err == nil {
		return token, nil
	}

	if token, ok := res.transport.IssuedToken(w); ok {
		return token, nil
	}

	token, err := res.generate()
	if err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	if token == "" {
		return "", ErrTokenGeneration
	}

	if err := res.transport.SetToken(w, token); err != nil {
		return "", errors.Join(ErrContextUnavailable, err)
	}
	return token, nil
}

// generateToken creates a cryptographically secure 128-bit token
func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
