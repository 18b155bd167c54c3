package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the consumer's record. Status and OTP are written by the
// app and by vendor tooling; Status is kept raw so unknown values survive a
// round trip.
type UserProfile struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Phone               string     `gorm:"column:phone;not null;uniqueIndex:ux_user_profiles_phone"`
	Status              string     `gorm:"column:status;not null;default:''"`
	CurrentAssignmentID *uuid.UUID `gorm:"column:current_assignment_id;type:uuid"`
	OTP                 *string    `gorm:"column:otp"`
	Language            string     `gorm:"column:language;not null;default:'en'"`
	Location            string     `gorm:"column:location;not null;default:''"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserProfile) TableName() string { return "user_profiles" }
