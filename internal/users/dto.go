package users

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
)

// ProfileDTO is the transport shape of a user profile. The OTP is left out;
// it is only surfaced through the lifecycle view.
type ProfileDTO struct {
	ID                  uuid.UUID  `json:"id"`
	Phone               string     `json:"phone"`
	Status              string     `json:"status"`
	CurrentAssignmentID *uuid.UUID `json:"currentAssignmentId,omitempty"`
	Language            string     `json:"language"`
	Location            string     `json:"location"`
}

// CreateProfileDTO holds the data required to persist a new profile.
type CreateProfileDTO struct {
	Phone    string
	Status   enums.PickupStatus
	Language enums.Language
	Location string
}

func FromModel(p *models.UserProfile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:                  p.ID,
		Phone:               p.Phone,
		Status:              p.Status,
		CurrentAssignmentID: p.CurrentAssignmentID,
		Language:            p.Language,
		Location:            p.Location,
	}
}

func (d CreateProfileDTO) ToModel() *models.UserProfile {
	lang := d.Language
	if lang == "" {
		lang = enums.LanguageEnglish
	}
	return &models.UserProfile{
		Phone:    d.Phone,
		Status:   string(d.Status),
		Language: string(lang),
		Location: d.Location,
	}
}
