// Package cookie provides a small HTTP cookie manager shared by the session
// resolver and any handler that needs to write cookies with consistent
// attributes.
//
// The Manager holds default Options (Path "/", HttpOnly, SameSite=Lax) and an
// optional list of secrets:
//
//   - Set(), Get(), Delete() work with plain cookies.
//   - SetSigned(), GetSigned() append an HMAC-SHA256 signature so tampered
//     values are rejected. Values are not encrypted.
//   - Issued() and IssuedSigned() look at the Set-Cookie headers already queued
//     on a response, which lets callers avoid writing the same cookie twice
//     within one request.
//
// Multiple secrets enable key rotation: the first one signs, all of them are
// tried when verifying.
//
// # Usage
//
//	man, err := cookie.New(nil) // plain cookies only
//	if err != nil { log.Fatal(err) }
//
//	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
//	    _ = man.Set(w, "theme", "dark")
//	})
//
// Twelve-factor applications can build the manager from Config:
//
//	cfg := cookie.DefaultConfig()
//	_ = config.Load(&cfg)
//	man, _ := cookie.NewFromConfig(cfg)
//
// # Error Handling
//
// Sentinel errors such as ErrCookieNotFound and ErrInvalidSignature can be
// matched with errors.Is.
package cookie
