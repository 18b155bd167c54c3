package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/scrappickup-backend/pkg/types"
)

// Bill is the invoice of a completed assignment, one per assignment.
type Bill struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	AssignmentID uuid.UUID       `gorm:"column:assignment_id;type:uuid;not null;uniqueIndex"`
	TotalBill    decimal.Decimal `gorm:"column:total_bill;type:numeric(12,2);not null"`
	BillItems    types.LineItems `gorm:"column:bill_items;type:jsonb;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Bill) TableName() string { return "bills" }
