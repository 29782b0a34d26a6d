package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrymomot/statekit/handler"
	"github.com/dmitrymomot/statekit/modules/state"
	"github.com/dmitrymomot/statekit/pkg/clientip"
	"github.com/dmitrymomot/statekit/pkg/config"
	"github.com/dmitrymomot/statekit/pkg/cookie"
	"github.com/dmitrymomot/statekit/pkg/environment"
	"github.com/dmitrymomot/statekit/pkg/httpserver"
	"github.com/dmitrymomot/statekit/pkg/logger"
	"github.com/dmitrymomot/statekit/pkg/ratelimiter"
	"github.com/dmitrymomot/statekit/pkg/requestid"
	"github.com/dmitrymomot/statekit/pkg/session"
)

type appConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"stateserver"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Error("stateserver failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg      appConfig
		sessionCfg  session.Config
		cookieCfg   cookie.Config
		serverCfg   httpserver.Config
		clientIPCfg clientip.Config
		limitCfg    ratelimiter.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&sessionCfg) },
		func() error { return config.Load(&cookieCfg) },
		func() error { return config.Load(&serverCfg) },
		func() error { return config.Load(&clientIPCfg) },
		func() error { return config.Load(&limitCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log := logger.New(
		logger.WithEnvironment(environment.Parse(appCfg.Env), appCfg.Name),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			session.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	cookieMgr, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return err
	}

	manager := session.NewFromConfig(sessionCfg,
		session.WithCookieManager(cookieMgr),
		session.WithLogger(log),
	)
	defer func() {
		if err := manager.Close(); err != nil {
			log.Error("failed to close session store", logger.Error(err))
		}
	}()

	var limiter ratelimiter.RateLimiter
	if limitCfg.Enabled {
		limitStore := ratelimiter.NewMemoryStore()
		defer limitStore.Close()
		if limiter, err = ratelimiter.NewBucket(limitStore, limitCfg); err != nil {
			return err
		}
	}

	srv := httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log))

	log.InfoContext(ctx, "starting stateserver",
		slog.String("cookie", sessionCfg.CookieName),
		slog.Bool("signed_cookies", cookieMgr.CanSign()),
		slog.Int("shards", sessionCfg.Shards),
		slog.Bool("rate_limit", limiter != nil),
	)
	return srv.Run(ctx, newRouter(routerDeps{
		manager:  manager,
		clientIP: clientip.NewFromConfig(clientIPCfg),
		limiter:  limiter,
		logger:   log,
	}))
}

type routerDeps struct {
	manager  *session.Manager
	clientIP *clientip.Resolver
	limiter  ratelimiter.RateLimiter // nil disables limiting
	logger   *slog.Logger
}

// newRouter mounts the state API and health probes behind request ids,
// client IP resolution and OpenTelemetry HTTP instrumentation.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(deps.clientIP.Middleware)

	r.Group(func(r chi.Router) {
		if deps.limiter != nil {
			r.Use(ratelimiter.Middleware(deps.limiter, byClientIP,
				ratelimiter.WithLimitedHandler(func(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result) {
					_ = handler.JSONError(handler.ErrTooManyRequests).Render(w, r)
				}),
				ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
					deps.logger.ErrorContext(r.Context(), "rate limiter failed", logger.Error(err))
					_ = handler.JSONError(handler.ErrInternalServerError).Render(w, r)
				}),
			))
		}
		r.Mount("/state", state.NewService(deps.manager, deps.logger).Handle())
	})

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", httpserver.LivenessHandler())
		r.Get("/ready", httpserver.ReadinessHandler(deps.logger, httpserver.Check{
			Name: "session_store",
			Fn:   deps.manager.Ping,
		}))
	})

	return otelhttp.NewHandler(r, "stateserver")
}

func byClientIP(r *http.Request) string {
	return clientip.FromContext(r.Context())
}
