package pipeline

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const sessionIDKey ctxKey = iota

// WithSessionID attaches a stream-session id to ctx. The HTTP layer sets one
// per request so logs and the X-Session-Id header agree.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionID returns the session id attached to ctx, or an empty string.
func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// NewSessionID mints a fresh session id.
func NewSessionID() string {
	return uuid.NewString()
}
