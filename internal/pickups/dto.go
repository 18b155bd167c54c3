package pickups

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scrappickup-backend/internal/cart"
	"github.com/angelmondragon/scrappickup-backend/pkg/types"
)

// SubmitInput is a validated pickup request.
type SubmitInput struct {
	Location      string
	Address       string
	PreferredDate *time.Time
	Items         []cart.QuoteItem
}

// RequestDTO is the stored request returned to the app.
type RequestDTO struct {
	ID             uuid.UUID       `json:"id"`
	Status         string          `json:"status"`
	Location       string          `json:"location"`
	Address        string          `json:"address"`
	PreferredDate  *time.Time      `json:"preferredDate,omitempty"`
	Items          types.LineItems `json:"items"`
	EstimatedTotal decimal.Decimal `json:"estimatedTotal"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// RequestedEvent is the payload of the pickup.requested event.
type RequestedEvent struct {
	RequestID      uuid.UUID       `json:"requestId"`
	UserID         uuid.UUID       `json:"userId"`
	Mobile         string          `json:"mobile"`
	Location       string          `json:"location"`
	Address        string          `json:"address"`
	PreferredDate  *time.Time      `json:"preferredDate,omitempty"`
	Items          types.LineItems `json:"items"`
	EstimatedTotal decimal.Decimal `json:"estimatedTotal"`
}

// HistoryItem is one past or current assignment.
type HistoryItem struct {
	AssignmentID      uuid.UUID       `json:"assignmentId"`
	Status            string          `json:"status"`
	VendorName        string          `json:"vendorName,omitempty"`
	VendorPhone       string          `json:"vendorPhone,omitempty"`
	Products          types.LineItems `json:"products"`
	Total             decimal.Decimal `json:"total"`
	PickedUpAt        *time.Time      `json:"pickedUpAt,omitempty"`
	DaysUntilDeletion *int            `json:"daysUntilDeletion,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// HistoryPage is one cursor page of history.
type HistoryPage struct {
	Items      []HistoryItem `json:"items"`
	NextCursor string        `json:"nextCursor,omitempty"`
}
