package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scrappickup-backend/pkg/types"
)

// QuoteInput is the cart the user wants priced.
type QuoteInput struct {
	Location string
	Items    []QuoteItem
}

// QuoteItem is one requested product and its estimated quantity in the
// product's unit.
type QuoteItem struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// Quote is the server-priced cart.
type Quote struct {
	Location string          `json:"location"`
	Lines    types.LineItems `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}
