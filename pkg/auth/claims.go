package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenPayload captures the data placed in a session token. The phone
// identity provider issues these in production; MintSessionToken exists for
// tooling and tests.
type SessionTokenPayload struct {
	UserID   string
	Phone    string
	Language string
	Location string
	JTI      string
}

// SessionTokenClaims represents the verified JWT presented by the consumer app.
type SessionTokenClaims struct {
	Phone    string `json:"phone"`
	Language string `json:"lang,omitempty"`
	Location string `json:"location,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the identity provider's subject.
func (c *SessionTokenClaims) UserID() string {
	return c.Subject
}

// SessionID returns the jti used for revocation.
func (c *SessionTokenClaims) SessionID() string {
	return c.ID
}
