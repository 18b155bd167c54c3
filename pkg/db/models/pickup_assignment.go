package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/scrappickup-backend/pkg/types"
)

// PickupAssignment links a submitted pickup to the vendor collecting it.
// AssignedAt is optional; older rows only carry the ISO-8601 Timestamp text.
type PickupAssignment struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Mobile      string          `gorm:"column:mobile;not null;index"`
	Status      string          `gorm:"column:status;not null;index"`
	VendorName  *string         `gorm:"column:vendor_name"`
	VendorPhone *string         `gorm:"column:vendor_phone"`
	AssignedAt  *time.Time      `gorm:"column:assigned_at"`
	Timestamp   *string         `gorm:"column:timestamp"`
	Products    types.LineItems `gorm:"column:products;type:jsonb;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (PickupAssignment) TableName() string { return "pickup_assignments" }
