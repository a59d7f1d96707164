package observability

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const (
	ctxKeyUserID ctxKey = "user_id"
)

// basic global logger, JSON to stdout.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithUserID stores the user id of the event being handled in the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// LoggerFromContext adds user_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	userID, ok := ctx.Value(ctxKeyUserID).(int64)
	if !ok {
		return logger
	}
	return logger.With("user_id", userID)
}
