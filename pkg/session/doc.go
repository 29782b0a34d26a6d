// Package session keeps per-client key/value state in memory for the lifetime
// of the process, keyed by an opaque identity carried in a cookie.
//
// # Architecture
//
// A Resolver extracts the identity from the request through a Transport
// (a plain or signed cookie by default) and mints a new 128-bit token when the
// client has none. A Store maps identities to State values. A Manager joins
// the two and offers request-scoped Load and Save plus a Middleware that
// resolves the identity once per request.
//
//	┌────────┐  sessionId  ┌────────────┐
//	│ Client │ ──────────► │  Resolver  │
//	└────────┘             └────────────┘
//	                             │ identity
//	                             ▼
//	┌─────────────────────────────────┐
//	│            Manager              │
//	└─────────────────────────────────┘
//	       │   get-or-create / replace
//	       ▼
//	┌─────────────┐
//	│ MemoryStore │ (sharded, per-entry locks)
//	└─────────────┘
//
// # State
//
// State is a record of the owning identity and a string map. On the wire it
// is a flat JSON object where the reserved IDKey ("__sessionId") carries the
// identity. The store always forces the identity on reads and writes, so a
// client cannot move its data to another session.
//
// Store.Get returns the stored *State itself. Store.Put never swaps that
// pointer: it clears and repopulates the stored entry under the entry lock,
// so every holder of the reference sees the update and no reader observes a
// half-replaced state.
//
// # Usage
//
//	manager := session.New() // memory store + plain "sessionId" cookie
//	defer manager.Close()
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    st, err := manager.Load(r.Context(), w, r)
//	    if err != nil { ... }
//	    color, _ := st.Get("color")
//	    _ = color
//	}
//
// # Error Handling
//
//   - ErrContextUnavailable – no request/response to read or write the cookie
//   - ErrSessionNotFound    – Put for an identity never loaded
//   - ErrSerialization      – malformed state payload
//   - ErrStoreClosed        – the store was closed
//
// Entries are never evicted.
package session
