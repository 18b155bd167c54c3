package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scrappickup-backend/internal/cart"
)

type stubQuoter struct {
	input cart.QuoteInput
	calls int
}

func (s *stubQuoter) Quote(_ context.Context, input cart.QuoteInput) (*cart.Quote, error) {
	s.calls++
	s.input = input
	return &cart.Quote{Location: input.Location, Total: decimal.RequireFromString("105.00")}, nil
}

func TestCartQuoteMapsRequest(t *testing.T) {
	productID := uuid.New()
	body := `{"items":[{"productId":"` + productID.String() + `","quantity":"2.5"}]}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	svc := &stubQuoter{}

	CartQuote(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if svc.input.Location != "Pune" {
		t.Fatalf("expected session location, got %q", svc.input.Location)
	}
	if len(svc.input.Items) != 1 || svc.input.Items[0].ProductID != productID {
		t.Fatalf("unexpected items %+v", svc.input.Items)
	}
	if !svc.input.Items[0].Quantity.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("unexpected quantity %s", svc.input.Items[0].Quantity)
	}
	var quote cart.Quote
	decodeData(t, resp, &quote)
	if !quote.Total.Equal(decimal.RequireFromString("105")) {
		t.Fatalf("unexpected total %s", quote.Total)
	}
}

func TestCartQuoteRejectsInvalidLines(t *testing.T) {
	body := `{"items":[{"productId":"not-a-uuid","quantity":"-1"}]}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/v1/cart/quote", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	svc := &stubQuoter{}

	CartQuote(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if svc.calls != 0 {
		t.Fatal("service should not be called")
	}
	env := decodeError(t, resp)
	if _, ok := env.Error.Details["items[0].quantity"]; !ok {
		t.Fatalf("missing quantity detail: %+v", env.Error.Details)
	}
}
