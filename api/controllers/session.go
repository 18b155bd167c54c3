package controllers

import (
	"net/http"

	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
)

func requireSession(r *http.Request) (session.Session, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.Phone == "" {
		return session.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session missing")
	}
	return sess, nil
}
