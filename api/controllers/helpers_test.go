package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
)

var testSession = session.Session{
	UserID:    "8d7c8f0e-4a51-4a8c-9f7e-2b1f4f8e6a01",
	SessionID: "sess-1",
	Phone:     "+911234567890",
	Language:  enums.LanguageEnglish,
	Location:  "Pune",
	ExpiresAt: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(session.WithSession(req.Context(), testSession))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return env
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}
