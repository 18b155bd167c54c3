package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scrappickup-backend/pkg/types"
)

// PickupRequest is what the consumer submits before a vendor is assigned.
type PickupRequest struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Mobile         string          `gorm:"column:mobile;not null;index"`
	Location       string          `gorm:"column:location;not null"`
	Address        string          `gorm:"column:address;not null"`
	PreferredDate  *time.Time      `gorm:"column:preferred_date"`
	Items          types.LineItems `gorm:"column:items;type:jsonb;not null"`
	EstimatedTotal decimal.Decimal `gorm:"column:estimated_total;type:numeric(12,2);not null"`
	Status         string          `gorm:"column:status;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (PickupRequest) TableName() string { return "pickup_requests" }
