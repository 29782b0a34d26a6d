package session

import "net/http"

// Transport defines how session identities travel between client and server
type Transport interface {
	// GetToken extracts the identity sent by the client
	GetToken(r *http.Request) (string, error)

	// SetToken sends a newly minted identity to the client
	SetToken(w http.ResponseWriter, token string) error

	// IssuedToken returns the identity already sent on w during this request
	IssuedToken(w http.ResponseWriter) (string, bool)
}
