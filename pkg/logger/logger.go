// Package logger provides the structured, levelled logger for splatmarket,
// built on log/slog.
//
// Handlers are environment-switched: human-readable text in development,
// JSON in production. When LOG_MONGO_URI is configured, records are also
// fanned out to a MongoDB collection (see mongo_handler.go).
//
// The WithCtx extension returns a logger pre-tagged with the request ID, so
// every log line from a handler is correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", order.ID)
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/splatmarket/splatmarket/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Boot attaches the optional MongoDB sink. Call once at startup, after
// config.Load. Returns a close function that flushes pending records.
func Boot() (func(), error) {
	uri := config.LogMongoURI()
	if uri == "" {
		return func() {}, nil
	}

	mh, err := NewMongoHandler(uri, config.LogMongoDatabase(), config.LogMongoCollection())
	if err != nil {
		return func() {}, err
	}

	L = slog.New(NewMultiHandler(baseHandler(), mh))
	slog.SetDefault(L)
	return mh.Close, nil
}

// ctxKey stores the per-request *slog.Logger injected by the Logger middleware.
type ctxKey struct{}

// WithCtx returns the request-scoped logger from ctx, or the base logger when
// none was injected.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a *slog.Logger (pre-tagged with request_id) into ctx.
// Called by the Logger middleware — not usually needed in application code.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level with the request-scoped logger from ctx.
func Debug(ctx context.Context, msg string, args ...any) { WithCtx(ctx).Debug(msg, args...) }

// Info logs at INFO level with the request-scoped logger from ctx.
func Info(ctx context.Context, msg string, args ...any) { WithCtx(ctx).Info(msg, args...) }

// Warn logs at WARN level with the request-scoped logger from ctx.
func Warn(ctx context.Context, msg string, args ...any) { WithCtx(ctx).Warn(msg, args...) }

// Error logs at ERROR level with the request-scoped logger from ctx.
func Error(ctx context.Context, msg string, args ...any) { WithCtx(ctx).Error(msg, args...) }
