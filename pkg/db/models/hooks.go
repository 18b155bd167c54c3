package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *UserProfile) BeforeCreate(*gorm.DB) error      { ensureID(&m.ID); return nil }
func (m *PickupAssignment) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (m *Bill) BeforeCreate(*gorm.DB) error             { ensureID(&m.ID); return nil }
func (m *Product) BeforeCreate(*gorm.DB) error          { ensureID(&m.ID); return nil }
func (m *PickupRequest) BeforeCreate(*gorm.DB) error    { ensureID(&m.ID); return nil }

// All lists the persisted models in dependency order.
func All() []any {
	return []any{
		&UserProfile{},
		&PickupAssignment{},
		&Bill{},
		&Product{},
		&PickupRequest{},
	}
}
