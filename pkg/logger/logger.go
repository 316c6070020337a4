// Package logger provides the structured, levelled logger used across the
// site, built on log/slog.
//
// Handlers log through WithCtx so every line carries the request id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "shop", "finagle", "total", "1400.00")
//	// → time=... level=INFO msg="order placed" request_id=6f1c... shop=finagle total=1400.00
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/eatn/config"
)

// L is the process-wide base logger.
var L *slog.Logger

// closer is set when a Mongo sink is attached.
var closer io.Closer

func init() {
	L = slog.New(consoleHandler(os.Stdout))
	slog.SetDefault(L)
}

func consoleHandler(w io.Writer) slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Setup attaches the MongoDB sink when LOG_MONGO_URI is configured.
// A sink that cannot connect is reported and skipped; stdout logging
// continues either way.
func Setup() {
	uri := config.LogMongoURI()
	if uri == "" {
		return
	}
	mh, err := NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoCollection())
	if err != nil {
		L.Warn("mongo log sink disabled", "error", err)
		return
	}
	closer = mh
	L = slog.New(NewMultiHandler(consoleHandler(os.Stdout), mh))
	slog.SetDefault(L)
}

// Close flushes any asynchronous sink.
func Close() {
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
}

type ctxKey struct{}

// WithCtx returns the per-request logger stored by the request logger
// middleware, or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
