package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/scrappickup-backend/api/responses"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
)

type sessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error
}

// AuthLogout revokes the caller's session until its token expires.
func AuthLogout(revoker sessionRevoker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if revoker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
			return
		}
		sess, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := revoker.Revoke(r.Context(), sess.SessionID, sess.ExpiresAt); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "session revoked")
		responses.WriteSuccess(w, map[string]bool{"revoked": true})
	}
}
