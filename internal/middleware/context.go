package middleware

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// CommandIDKey is the context key for the ID of the command being executed.
const CommandIDKey contextKey = "command_id"

// WithCommandID returns a copy of ctx carrying a fresh command ID.
func WithCommandID(ctx context.Context) context.Context {
	return context.WithValue(ctx, CommandIDKey, uuid.NewString())
}

// GetCommandID extracts the command ID from the context.
// Returns empty string if not found.
func GetCommandID(ctx context.Context) string {
	id, _ := ctx.Value(CommandIDKey).(string)
	return id
}
