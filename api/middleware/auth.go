package middleware

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/scrappickup-backend/api/responses"
	pkgAuth "github.com/angelmondragon/scrappickup-backend/pkg/auth"
	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	"github.com/angelmondragon/scrappickup-backend/pkg/config"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
)

const (
	headerLanguage = "Accept-Language"
	headerLocation = "X-Location"
)

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return token, nil
}

// Auth verifies the identity provider's token, rejects revoked sessions and
// stores the request Session on the context. Headers override the language
// and location carried in the token.
func Auth(cfg config.JWTConfig, revocations session.RevocationChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := pkgAuth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), claims.SessionID())
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if revoked {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, session.ErrSessionRevoked, "session revoked"))
					return
				}
			}

			sess := session.Session{
				UserID:    claims.UserID(),
				SessionID: claims.SessionID(),
				Phone:     claims.Phone,
				Language:  enums.ParseLanguage(firstNonEmpty(r.Header.Get(headerLanguage), claims.Language)),
				Location:  strings.TrimSpace(firstNonEmpty(r.Header.Get(headerLocation), claims.Location)),
			}
			if claims.ExpiresAt != nil {
				sess.ExpiresAt = claims.ExpiresAt.Time
			}

			ctx := session.WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithUserID(ctx, sess.UserID)
				ctx = logg.WithPhone(ctx, sess.Phone)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
