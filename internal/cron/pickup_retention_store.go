package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/scrappickup-backend/internal/assignments"
	"github.com/angelmondragon/scrappickup-backend/internal/bills"
	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// sweepStore is what the retention job reads from and deletes through.
type sweepStore interface {
	ListCompleted(ctx context.Context) ([]models.PickupAssignment, error)
	DeleteWithBills(ctx context.Context, ids []uuid.UUID) (sweepResult, error)
}

type sweepResult struct {
	Assignments int64
	Bills       int64
}

// repoSweepStore removes assignments and their bills in one transaction.
type repoSweepStore struct {
	db          txRunner
	assignments assignments.Repository
	bills       bills.Repository
}

func (s *repoSweepStore) ListCompleted(ctx context.Context) ([]models.PickupAssignment, error) {
	return s.assignments.ListByStatus(ctx, enums.PickupStatusCompleted)
}

// DeleteWithBills deletes bills first so a foreign key never sees an orphan.
func (s *repoSweepStore) DeleteWithBills(ctx context.Context, ids []uuid.UUID) (sweepResult, error) {
	var result sweepResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		billRows, err := s.bills.WithTx(tx).DeleteByAssignmentIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete bills: %w", err)
		}
		assignmentRows, err := s.assignments.WithTx(tx).DeleteByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete assignments: %w", err)
		}
		result = sweepResult{Assignments: assignmentRows, Bills: billRows}
		return nil
	})
	if err != nil {
		return sweepResult{}, err
	}
	return result, nil
}
