package state

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/statekit/handler"
	"github.com/dmitrymomot/statekit/pkg/binder"
	"github.com/dmitrymomot/statekit/pkg/logger"
	"github.com/dmitrymomot/statekit/pkg/session"
)

// stateBody is the flat PUT payload. Binding into a plain map keeps the
// entry lock inside session.State out of the decoder.
type stateBody map[string]string

type Service struct {
	manager      *session.Manager
	logger       *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
	maxBodySize  int64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxBodySize caps PUT bodies. Non-positive values keep the binder default.
func WithMaxBodySize(n int64) ServiceOption {
	return func(s *Service) {
		s.maxBodySize = n
	}
}

// WithErrorHandler replaces the JSON error handler built from the logger.
func WithErrorHandler(h handler.ErrorHandler[handler.Context]) ServiceOption {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

func NewService(manager *session.Manager, log *slog.Logger, opts ...ServiceOption) *Service {
	if log == nil {
		log = logger.Discard()
	}
	s := &Service{
		manager: manager,
		logger:  log.With(logger.Component("state")),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		s.errorHandler = handler.NewErrorHandler(s.logger, handler.ErrorHandlerConfig{
			Classifiers: []handler.Classifier{classify},
		})
	}
	return s
}

// Handle returns the router for GET / and PUT /, meant to be mounted at /state.
// The session middleware runs first so both verbs share one identity.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(s.manager.Middleware)

	r.Get("/", handler.Wrap(s.get,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Put("/", handler.Wrap(s.put,
		handler.WithBinder[handler.Context, stateBody](binder.JSON(binder.WithMaxBodySize(s.maxBodySize))),
		handler.WithErrorHandler[handler.Context, stateBody](s.errorHandler),
	))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.errorHandler(handler.NewContext(w, r), handler.ErrMethodNotAllowed)
	})

	return r
}

func (s *Service) get(ctx handler.Context, _ struct{}) handler.Response {
	st, err := s.manager.Load(ctx, ctx.ResponseWriter(), ctx.Request())
	if err != nil {
		return handler.Error(err)
	}
	return handler.Raw(st)
}

func (s *Service) put(ctx handler.Context, body stateBody) handler.Response {
	if body == nil {
		return handler.Error(fmt.Errorf("%w: body must be a JSON object", session.ErrSerialization))
	}

	if err := s.manager.Save(ctx, ctx.ResponseWriter(), ctx.Request(), session.NewState(body)); err != nil {
		return handler.Error(err)
	}

	s.logger.DebugContext(ctx, "state replaced",
		logger.Event("state_replaced"),
		slog.Int("keys", len(body)),
	)
	return handler.Empty()
}
