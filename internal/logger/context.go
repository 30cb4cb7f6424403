// Package logger carries a request-scoped slog.Logger through context so
// every layer logs with the same attributes.
package logger

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

func AddToContext(ctx context.Context, ctxLogger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, ctxLogger)
}

func GetFromContext(ctx context.Context) *slog.Logger {
	ctxLogger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		ctxLogger = slog.Default()
	}

	return ctxLogger
}
