package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scrappickup-backend/internal/catalog"
)

type stubCatalog struct {
	location string
}

func (s *stubCatalog) List(_ context.Context, location string) ([]catalog.ProductDTO, error) {
	s.location = location
	return []catalog.ProductDTO{{ID: uuid.New(), Location: location, Name: "Copper", Unit: "kg", Rate: decimal.NewFromInt(420)}}, nil
}

func TestCatalogListDefaultsToSessionLocation(t *testing.T) {
	svc := &stubCatalog{}
	resp := httptest.NewRecorder()
	CatalogList(svc, testLogger())(resp, withSession(httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil)))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if svc.location != "Pune" {
		t.Fatalf("expected session location, got %q", svc.location)
	}
	var body struct {
		Location string               `json:"location"`
		Products []catalog.ProductDTO `json:"products"`
	}
	decodeData(t, resp, &body)
	if len(body.Products) != 1 || body.Products[0].Name != "Copper" {
		t.Fatalf("unexpected products %+v", body.Products)
	}
}

func TestCatalogListUsesQueryLocation(t *testing.T) {
	svc := &stubCatalog{}
	resp := httptest.NewRecorder()
	CatalogList(svc, testLogger())(resp, withSession(httptest.NewRequest(http.MethodGet, "/api/v1/catalog?location=%20Mumbai%20", nil)))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if svc.location != "Mumbai" {
		t.Fatalf("expected query location, got %q", svc.location)
	}
}
