package session

import (
	"context"
	"time"

	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
)

// Session is the per-request identity and preferences of the signed-in user.
// It is built by the auth middleware and handed to services explicitly.
type Session struct {
	UserID    string
	SessionID string
	Phone     string
	Language  enums.Language
	Location  string
	ExpiresAt time.Time
}

type ctxKey struct{}

// WithSession stores s on ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
