package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/scrappickup-backend/internal/pickups"
	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/pagination"
)

type stubPickups struct {
	input  pickups.SubmitInput
	params pagination.Params
	err    error
}

func (s *stubPickups) Submit(_ context.Context, _ session.Session, input pickups.SubmitInput) (*pickups.RequestDTO, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return &pickups.RequestDTO{ID: uuid.New(), Status: "Pending", Location: input.Location, Address: input.Address}, nil
}

func (s *stubPickups) History(_ context.Context, _ session.Session, params pagination.Params) (*pickups.HistoryPage, error) {
	s.params = params
	return &pickups.HistoryPage{Items: []pickups.HistoryItem{{AssignmentID: uuid.New(), Status: "Completed"}}, NextCursor: "next"}, nil
}

func TestPickupSubmitCreatesRequest(t *testing.T) {
	body := `{"address":" 12 MG Road ","preferredDate":"2026-03-12T10:00:00Z","items":[{"productId":"` + uuid.NewString() + `","quantity":3}]}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/pickups", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	svc := &stubPickups{}

	PickupSubmit(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if svc.input.Address != "12 MG Road" {
		t.Fatalf("address not trimmed: %q", svc.input.Address)
	}
	if svc.input.PreferredDate == nil || !svc.input.PreferredDate.Equal(time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected preferred date %v", svc.input.PreferredDate)
	}
	var created pickups.RequestDTO
	decodeData(t, resp, &created)
	if created.Status != "Pending" {
		t.Fatalf("unexpected status %q", created.Status)
	}
}

func TestPickupSubmitRequiresAddress(t *testing.T) {
	body := `{"items":[{"productId":"` + uuid.NewString() + `","quantity":1}]}`
	resp := httptest.NewRecorder()
	PickupSubmit(&stubPickups{}, testLogger())(resp, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/pickups", strings.NewReader(body))))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPickupSubmitMapsStateConflict(t *testing.T) {
	body := `{"address":"12 MG Road","items":[{"productId":"` + uuid.NewString() + `","quantity":1}]}`
	svc := &stubPickups{err: pkgerrors.New(pkgerrors.CodeStateConflict, "a pickup is already in progress")}
	resp := httptest.NewRecorder()
	PickupSubmit(svc, testLogger())(resp, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/pickups", strings.NewReader(body))))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if env := decodeError(t, resp); env.Error.Message != "a pickup is already in progress" {
		t.Fatalf("unexpected message %q", env.Error.Message)
	}
}

func TestPickupHistoryPassesPagination(t *testing.T) {
	svc := &stubPickups{}
	resp := httptest.NewRecorder()
	PickupHistory(svc, testLogger())(resp, withSession(httptest.NewRequest(http.MethodGet, "/api/v1/pickups/history?limit=10&cursor=abc", nil)))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if svc.params.Limit != 10 || svc.params.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", svc.params)
	}
	var page pickups.HistoryPage
	decodeData(t, resp, &page)
	if len(page.Items) != 1 || page.NextCursor != "next" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestPickupHistoryRejectsBadLimit(t *testing.T) {
	resp := httptest.NewRecorder()
	PickupHistory(&stubPickups{}, testLogger())(resp, withSession(httptest.NewRequest(http.MethodGet, "/api/v1/pickups/history?limit=1000", nil)))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
