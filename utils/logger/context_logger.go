package logger

import (
	"context"
	"log/slog"
)

// contextKey is the private type for context values carried by this package.
type contextKey string

// Context keys for business attributes propagated through request handling.
const (
	UserIDKey        contextKey = "user_id"
	RequestIDKey     contextKey = "request_id"
	SessionPrefixKey contextKey = "docgate.session.prefix"
	AudienceKey      contextKey = "docgate.audience"
	TargetHostKey    contextKey = "docgate.target.host"
	AuthStageKey     contextKey = "docgate.auth.stage"
)

// GlobalContext is the process-wide context logger, set by Init.
var GlobalContext *ContextLogger

// WithUserID attaches the identity-provider user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithRequestID attaches the request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithSessionPrefix attaches a truncated session identifier to the context.
// Never pass a full session ID; callers truncate first.
func WithSessionPrefix(ctx context.Context, prefix string) context.Context {
	return context.WithValue(ctx, SessionPrefixKey, prefix)
}

// WithAudience attaches the token audience to the context.
func WithAudience(ctx context.Context, audience string) context.Context {
	return context.WithValue(ctx, AudienceKey, audience)
}

// WithTargetHost attaches the redirect target host to the context.
func WithTargetHost(ctx context.Context, host string) context.Context {
	return context.WithValue(ctx, TargetHostKey, host)
}

// WithAuthStage attaches the current authorization stage to the context.
func WithAuthStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, AuthStageKey, stage)
}

// ContextLogger enriches log records with business attributes carried in the
// request context.
type ContextLogger struct {
	logger *slog.Logger
}

// NewContextLogger creates a context-aware logger wrapper.
func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext returns a logger carrying every business attribute present in
// ctx.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger
	for _, key := range []contextKey{
		UserIDKey,
		RequestIDKey,
		SessionPrefixKey,
		AudienceKey,
		TargetHostKey,
		AuthStageKey,
	} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			logger = logger.With(string(key), v)
		}
	}
	return logger
}

// LogDuration logs a completed operation with its duration in milliseconds.
func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, durationMs int64) {
	cl.WithContext(ctx).InfoContext(ctx, "operation completed",
		"operation", operation,
		"duration_ms", durationMs)
}

// LogError logs a failed operation.
func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).ErrorContext(ctx, "operation failed",
		"operation", operation,
		"error", err)
}
