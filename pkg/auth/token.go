package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/scrappickup-backend/pkg/config"
	"github.com/angelmondragon/scrappickup-backend/pkg/phone"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

var (
	// ErrMissingPhone rejects tokens without a usable phone claim.
	ErrMissingPhone = errors.New("token is missing the phone claim")
	// ErrMissingSessionID rejects tokens that cannot be revoked.
	ErrMissingSessionID = errors.New("token is missing the jti claim")
)

// MintSessionToken issues a signed JWT for payload valid for cfg.SessionTTL.
func MintSessionToken(cfg config.JWTConfig, now time.Time, payload SessionTokenPayload) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if cfg.SessionTTL <= 0 {
		return "", fmt.Errorf("session ttl must be positive")
	}
	if !phone.Valid(payload.Phone) {
		return "", fmt.Errorf("invalid phone %q", payload.Phone)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}
	subject := strings.TrimSpace(payload.UserID)
	if subject == "" {
		subject = phone.Normalize(payload.Phone)
	}

	claims := SessionTokenClaims{
		Phone:    phone.Normalize(payload.Phone),
		Language: payload.Language,
		Location: payload.Location,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseSessionToken validates the JWT string and returns typed claims.
func ParseSessionToken(cfg config.JWTConfig, tokenString string) (*SessionTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &SessionTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims.Phone = phone.Normalize(claims.Phone)
	if !phone.Valid(claims.Phone) {
		return nil, ErrMissingPhone
	}
	if strings.TrimSpace(claims.ID) == "" {
		return nil, ErrMissingSessionID
	}
	return claims, nil
}
