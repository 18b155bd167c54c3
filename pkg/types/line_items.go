package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one priced scrap material row, shared by pickup requests,
// assignments and bills.
type LineItem struct {
	ProductID *uuid.UUID      `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
	Total     decimal.Decimal `json:"total"`
}

// LineItems is persisted as a JSON array.
type LineItems []LineItem

// Sum adds up the line totals.
func (l LineItems) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l {
		total = total.Add(item.Total)
	}
	return total
}

// Value marshals the slice into JSON.
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON array column.
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("line items: unsupported scan type %T", value)
	}

	var result LineItems
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("line items: %w", err)
	}
	*l = result
	return nil
}
