package assignments

import (
	"context"

	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
	"github.com/angelmondragon/scrappickup-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for pickup assignments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, assignment *models.PickupAssignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PickupAssignment, error)
	ListByStatus(ctx context.Context, status enums.PickupStatus) ([]models.PickupAssignment, error)
	ListByMobiles(ctx context.Context, params ListParams) ([]models.PickupAssignment, *pagination.Cursor, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// ListParams filters assignments for one logical phone number.
type ListParams struct {
	Mobiles []string
	Limit   int
	Cursor  *pagination.Cursor
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an assignments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, assignment *models.PickupAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

// FindByID returns gorm.ErrRecordNotFound when the assignment is absent.
func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.PickupAssignment, error) {
	var assignment models.PickupAssignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByStatus is a single equality filter on the indexed status column.
func (r *repositoryImpl) ListByStatus(ctx context.Context, status enums.PickupStatus) ([]models.PickupAssignment, error) {
	var rows []models.PickupAssignment
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("id").
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) ListByMobiles(ctx context.Context, params ListParams) ([]models.PickupAssignment, *pagination.Cursor, error) {
	if len(params.Mobiles) == 0 {
		return nil, nil, nil
	}

	query := r.db.WithContext(ctx).Model(&models.PickupAssignment{}).Where("mobile IN ?", params.Mobiles)
	if params.Cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			params.Cursor.CreatedAt, params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.PickupAssignment
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(params.Limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	rows, more := pagination.Trim(rows, params.Limit)
	if !more {
		return rows, nil, nil
	}
	last := rows[len(rows)-1]
	return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
}

// DeleteByIDs removes the given assignments and reports how many existed.
func (r *repositoryImpl) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.PickupAssignment{})
	return result.RowsAffected, result.Error
}
