package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// contextKey keeps the logger key private so other packages cannot collide
type contextKey int

const loggerKey contextKey = iota

// WithLogger stashes a logger in the context, typically the request-scoped
// child created by Middleware
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext resolves the logger handlers should write to. The
// request-scoped logger set by Middleware carries the request_id, so it is
// preferred; the request's Go context is checked next, and the process-wide
// logger is the last resort
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get("logger").(*zap.Logger); ok {
		return l
	}

	if l, ok := c.Request().Context().Value(loggerKey).(*zap.Logger); ok {
		return l
	}

	return zap.L()
}
