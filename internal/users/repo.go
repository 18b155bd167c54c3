package users

import (
	"context"

	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new profile and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateProfileDTO) (*models.UserProfile, error) {
	profile := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByPhone matches the stored phone exactly; callers handle the
// country-code variants.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).Order("created_at").First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByID loads a profile by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdatePreferences stores the language and location chosen in the app.
func (r *Repository) UpdatePreferences(ctx context.Context, id uuid.UUID, language enums.Language, location string) error {
	return r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"language": string(language), "location": location}).Error
}

// MarkPending moves the profile to Pending unless a pickup is already in
// flight. It reports false when the profile was Pending or On-Schedule.
func (r *Repository) MarkPending(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("id = ? AND status NOT IN ?", id, []string{string(enums.PickupStatusPending), string(enums.PickupStatusOnSchedule)}).
		UpdateColumns(map[string]any{"status": string(enums.PickupStatusPending), "otp": nil, "current_assignment_id": nil})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
