package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scrappickup-backend/api/responses"
	"github.com/angelmondragon/scrappickup-backend/api/validators"
	"github.com/angelmondragon/scrappickup-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
)

type cartQuoter interface {
	Quote(ctx context.Context, input cart.QuoteInput) (*cart.Quote, error)
}

type cartLineRequest struct {
	ProductID string          `json:"productId" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"positive_decimal"`
}

type cartQuoteRequest struct {
	Location string            `json:"location" validate:"max=64"`
	Items    []cartLineRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

func (req cartLineRequest) toItem() cart.QuoteItem {
	return cart.QuoteItem{
		ProductID: uuid.MustParse(req.ProductID),
		Quantity:  req.Quantity,
	}
}

func toQuoteItems(lines []cartLineRequest) []cart.QuoteItem {
	items := make([]cart.QuoteItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, line.toItem())
	}
	return items
}

func locationOr(requested, fallback string) string {
	if loc := strings.TrimSpace(requested); loc != "" {
		return loc
	}
	return fallback
}

// CartQuote prices the posted items without storing anything.
func CartQuote(svc cartQuoter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		sess, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req cartQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), cart.QuoteInput{
			Location: locationOr(req.Location, sess.Location),
			Items:    toQuoteItems(req.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
