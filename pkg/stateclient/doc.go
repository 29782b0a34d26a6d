// Package stateclient is the Go consumer of the state HTTP API.
//
//	c, err := stateclient.New("http://localhost:8080/")
//	st, err := c.Get(ctx)          // establishes the session cookie
//	st.Set("theme", "dark")
//	err = c.Put(ctx, st)           // replaces the server-side state
//	last, ok := c.Cached()
//
// A 404 from PUT is reported as session.ErrSessionNotFound; other failures
// are *APIError values matching ErrUnexpectedStatus.
package stateclient
