package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
)

type stubRevoker struct {
	sessionID string
	expiresAt time.Time
	err       error
}

func (s *stubRevoker) Revoke(_ context.Context, sessionID string, expiresAt time.Time) error {
	s.sessionID = sessionID
	s.expiresAt = expiresAt
	return s.err
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	revoker := &stubRevoker{}
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	resp := httptest.NewRecorder()

	AuthLogout(revoker, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if revoker.sessionID != testSession.SessionID {
		t.Fatalf("revoked %q", revoker.sessionID)
	}
	if !revoker.expiresAt.Equal(testSession.ExpiresAt) {
		t.Fatalf("unexpected expiry %s", revoker.expiresAt)
	}
}

func TestAuthLogoutRequiresSession(t *testing.T) {
	resp := httptest.NewRecorder()
	AuthLogout(&stubRevoker{}, testLogger())(resp, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthLogoutSurfacesStoreFailure(t *testing.T) {
	revoker := &stubRevoker{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("redis down"), "revoke session")}
	resp := httptest.NewRecorder()
	AuthLogout(revoker, testLogger())(resp, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
