// Package middleware wraps console command handlers and the metrics endpoint
// with cross-cutting behavior.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// Handler runs one parsed console command and returns its output.
type Handler func(ctx context.Context) (string, error)

// Interceptor decorates the handler for the named command.
type Interceptor func(command string, next Handler) Handler

// Logging returns an Interceptor that logs every command with its name,
// duration and error kind. Rejected input is logged at warn level; storage
// and unexpected failures at error level.
func Logging(logger *slog.Logger) Interceptor {
	return func(command string, next Handler) Handler {
		return func(ctx context.Context) (string, error) {
			start := time.Now()
			ctx = WithCommandID(ctx)

			out, err := next(ctx)

			duration := time.Since(start).Milliseconds()
			attrs := []any{
				"command", command,
				"command_id", GetCommandID(ctx),
				"duration_ms", duration,
			}
			switch kind := models.Kind(err); kind {
			case "none":
				logger.Info("Command ok", attrs...)
			case "format", "validation", "state":
				logger.Warn("Command rejected", append(attrs, "kind", kind, "error", err)...)
			default:
				logger.Error("Command failed", append(attrs, "kind", kind, "error", err)...)
			}

			return out, err
		}
	}
}

// Chain applies interceptors so the first one is outermost.
func Chain(interceptors ...Interceptor) Interceptor {
	return func(command string, next Handler) Handler {
		for i := len(interceptors) - 1; i >= 0; i-- {
			next = interceptors[i](command, next)
		}
		return next
	}
}

// HTTPLogging logs every request served by next.
func HTTPLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		logger.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		logger.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
