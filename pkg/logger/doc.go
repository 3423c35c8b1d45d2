// Package logger provides a context-aware wrapper around Go's slog
// package: a New factory configured by functional options, helper
// attribute constructors for consistent key naming, and transparent
// injection of values stored in context.Context.
//
// The factory builds a decorated slog.Handler: the concrete handler
// (text or JSON) is wrapped by ContextHandler, which runs registered
// ContextExtractor callbacks before delegating each record. This is how
// request-scoped data like request IDs end up on every log line.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "plankit"),
//	    logger.WithContextValue("request_id", ctxKeyRequestID),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "plan reconciled",
//	    logger.AccountID(accountID),
//	    logger.Tier(res.CurrentTier),
//	)
//
// Helper constructors such as Error, AccountID, and Tier return empty
// attributes for zero values, so callers do not need nil checks.
package logger
