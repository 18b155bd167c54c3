package bills

import (
	"context"

	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for bills.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, bill *models.Bill) error
	FindByAssignmentID(ctx context.Context, assignmentID uuid.UUID) (*models.Bill, error)
	DeleteByAssignmentIDs(ctx context.Context, assignmentIDs []uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a bills repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, bill *models.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *repositoryImpl) FindByAssignmentID(ctx context.Context, assignmentID uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	if err := r.db.WithContext(ctx).First(&bill, "assignment_id = ?", assignmentID).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repositoryImpl) DeleteByAssignmentIDs(ctx context.Context, assignmentIDs []uuid.UUID) (int64, error) {
	if len(assignmentIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("assignment_id IN ?", assignmentIDs).Delete(&models.Bill{})
	return result.RowsAffected, result.Error
}
