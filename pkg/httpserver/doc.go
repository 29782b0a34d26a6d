// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run binds the listener synchronously, so a bad address is reported as
// ErrStart before anything is served, and the bound address is available
// through Addr and the start hooks. The server stops when the context passed
// to Run is done, on SIGINT/SIGTERM, or on an explicit Shutdown call.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler provide the plain-text probes mounted
// under /health.
package httpserver
