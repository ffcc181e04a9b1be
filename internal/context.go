package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextSessionKey ctxKey = "session"

// Session is the signed-in console user, resolved once per request by the auth middleware.
type Session struct {
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Capabilities map[string]bool `json:"capabilities"`
	Admin        bool            `json:"admin"`
	TokenID      string          `json:"-"`
}

func (s *Session) Can(capability string) bool {
	if s == nil {
		return false
	}
	return s.Admin || s.Capabilities[capability]
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(ContextSessionKey).(*Session)
	return s, ok && s != nil
}

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
