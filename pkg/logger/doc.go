// Package logger builds *slog.Logger instances with consistent defaults and
// attribute names.
//
// New returns a JSON logger at INFO level on stdout unless options say
// otherwise. WithEnvironment switches to text output at DEBUG level in
// development. Every logger is wrapped in a LogHandlerDecorator that runs the
// registered ContextExtractor callbacks on each record, which is how request
// ids and session references end up in request-scoped logs.
//
// # Usage
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "stateserver"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "state replaced", logger.Component("state"))
//
// Attribute helpers such as Error, RequestID and Component return an empty
// slog.Attr for empty input, which slog drops.
package logger
