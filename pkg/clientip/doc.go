// Package clientip resolves the originating client address of a request.
//
// By default only RemoteAddr is used. Deployments behind a proxy list the
// headers that proxy sets with WithTrustedHeaders (or CLIENTIP_TRUSTED_HEADERS);
// untrusted forwarding headers are ignored, so clients cannot pick their own
// address.
//
//	res := clientip.New(clientip.WithTrustedHeaders("CF-Connecting-IP", "X-Forwarded-For"))
//	r.Use(res.Middleware)
//	ip := clientip.FromContext(req.Context())
package clientip
