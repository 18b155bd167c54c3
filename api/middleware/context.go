package middleware

import (
	"context"

	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
)

// UserIDFromContext returns the signed-in user's id, or "" before Auth ran.
func UserIDFromContext(ctx context.Context) string {
	s, ok := session.FromContext(ctx)
	if !ok {
		return ""
	}
	return s.UserID
}
