package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/scrappickup-backend/api/responses"
	"github.com/angelmondragon/scrappickup-backend/api/validators"
	"github.com/angelmondragon/scrappickup-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
)

const maxLocationLength = 64

type catalogLister interface {
	List(ctx context.Context, location string) ([]catalog.ProductDTO, error)
}

// CatalogList returns the active products of ?location, or of the session
// location when the query is empty.
func CatalogList(svc catalogLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		sess, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location := validators.QueryString(r, "location", maxLocationLength)
		if location == "" {
			location = sess.Location
		}

		products, err := svc.List(r.Context(), location)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"location": location, "products": products})
	}
}
