package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/types"
)

// MaxLines caps the distinct products in one cart.
const MaxLines = 50

type productResolver interface {
	Resolve(ctx context.Context, location string, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

// Service prices carts against the location catalog.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*Quote, error)
}

type service struct {
	products productResolver
}

// NewService builds the cart quote service.
func NewService(products productResolver) (Service, error) {
	if products == nil {
		return nil, errors.New("product resolver required")
	}
	return &service{products: products}, nil
}

// Quote merges repeated products, prices each line at the catalog rate and
// rounds line totals to two places.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*Quote, error) {
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location is required")
	}

	ids, quantities, err := mergeItems(input.Items)
	if err != nil {
		return nil, err
	}

	catalog, err := s.products.Resolve(ctx, location, ids)
	if err != nil {
		return nil, err
	}

	quote := &Quote{Location: location, Lines: make(types.LineItems, 0, len(ids))}
	for _, id := range ids {
		product := catalog[id]
		productID := product.ID
		qty := quantities[id]
		quote.Lines = append(quote.Lines, types.LineItem{
			ProductID: &productID,
			Name:      product.Name,
			Unit:      product.Unit,
			Quantity:  qty,
			Rate:      product.Rate,
			Total:     product.Rate.Mul(qty).Round(2),
		})
	}
	quote.Total = quote.Lines.Sum()
	return quote, nil
}

func mergeItems(items []QuoteItem) ([]uuid.UUID, map[uuid.UUID]decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	ids := make([]uuid.UUID, 0, len(items))
	quantities := make(map[uuid.UUID]decimal.Decimal, len(items))
	for idx, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required").
				WithDetails(map[string]any{"index": idx})
		}
		if !item.Quantity.IsPositive() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"index": idx, "productId": item.ProductID.String()})
		}
		current, seen := quantities[item.ProductID]
		if !seen {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] = current.Add(item.Quantity)
	}
	if len(ids) > MaxLines {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "too many products in cart").
			WithDetails(map[string]any{"max": MaxLines})
	}
	return ids, quantities, nil
}
