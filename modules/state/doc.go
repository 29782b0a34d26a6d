// Package state exposes the caller's session state over HTTP.
//
//	GET /state  200 flat JSON object including "__sessionId"
//	PUT /state  204 on success
//	            400 invalid_state for malformed bodies or non-string values
//	            404 session_not_found when the identity has no state yet
//	            415 unsupported_media_type for non-JSON bodies
//
// The identity comes from the session cookie. A "__sessionId" key in a PUT
// body is ignored, so a client can only ever replace its own state.
//
//	r.Mount("/state", state.NewService(manager, log).Handle())
package state
