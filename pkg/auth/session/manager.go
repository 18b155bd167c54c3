package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/scrappickup-backend/pkg/config"
	redisclient "github.com/angelmondragon/scrappickup-backend/pkg/redis"
)

const revokedMarker = "1"

var ErrSessionRevoked = errors.New("session has been revoked")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type sessionKeyer interface {
	RevokedSessionKey(tokenID string) string
}

// Manager tracks sign-outs so a revoked token stops working before it expires.
type Manager struct {
	store  sessionStore
	keyer  sessionKeyer
	maxTTL time.Duration
	now    func() time.Time
}

// RevocationChecker exposes the read-only surface needed by middleware.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store:  client,
		keyer:  client,
		maxTTL: cfg.SessionTTL,
		now:    time.Now,
	}, nil
}

// Revoke marks sessionID as signed out until expiresAt. A zero expiresAt
// keeps the marker for the full session TTL.
func (m *Manager) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	ttl := m.maxTTL
	if !expiresAt.IsZero() {
		remaining := expiresAt.Sub(m.now())
		if remaining <= 0 {
			return nil
		}
		if remaining < ttl {
			ttl = remaining
		}
	}
	return m.store.Set(ctx, m.keyer.RevokedSessionKey(sessionID), revokedMarker, ttl)
}

// IsRevoked reports whether sessionID was signed out.
func (m *Manager) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("session id is required")
	}
	return m.store.Exists(ctx, m.keyer.RevokedSessionKey(sessionID))
}
