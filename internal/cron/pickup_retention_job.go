package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/angelmondragon/scrappickup-backend/internal/assignments"
	"github.com/angelmondragon/scrappickup-backend/internal/bills"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
	"github.com/angelmondragon/scrappickup-backend/pkg/metrics"
	"github.com/angelmondragon/scrappickup-backend/pkg/retention"
)

const (
	pickupRetentionJobName = "pickup_retention"
	skipReasonMalformed    = "malformed_timestamp"
)

type PickupRetentionJobParams struct {
	Logger      *logger.Logger
	DB          txRunner
	Assignments assignments.Repository
	Bills       bills.Repository
	Metrics     *metrics.RetentionMetrics
}

// NewPickupRetentionJob builds the sweeper that removes completed
// assignments, and their bills, once they are past the retention window.
func NewPickupRetentionJob(params PickupRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Assignments == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if params.Bills == nil {
		return nil, fmt.Errorf("bills repository required")
	}
	return &pickupRetentionJob{
		logg: params.Logger,
		store: &repoSweepStore{
			db:          params.DB,
			assignments: params.Assignments,
			bills:       params.Bills,
		},
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

type pickupRetentionJob struct {
	logg    *logger.Logger
	store   sweepStore
	metrics *metrics.RetentionMetrics
	now     func() time.Time
}

func (j *pickupRetentionJob) Name() string { return pickupRetentionJobName }

func (j *pickupRetentionJob) Run(ctx context.Context) error {
	_, err := j.Sweep(ctx)
	return err
}

// Sweep deletes every expired completed assignment with its bill in one
// transaction and returns how many assignments were removed. Records with a
// missing or unreadable timestamp are skipped and never deleted.
func (j *pickupRetentionJob) Sweep(ctx context.Context) (int, error) {
	now := j.now().UTC()
	cutoff := retention.Cutoff(now)
	ctx = j.logg.WithField(ctx, "cutoff", cutoff.Format(time.RFC3339))

	rows, err := j.store.ListCompleted(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list completed assignments")
	}

	var (
		marked  []uuid.UUID
		seen    = make(map[uuid.UUID]struct{}, len(rows))
		skipped error
	)
	for _, row := range rows {
		if row.Status != string(enums.PickupStatusCompleted) {
			continue
		}
		if _, dup := seen[row.ID]; dup {
			continue
		}
		seen[row.ID] = struct{}{}

		effective, err := retention.EffectiveTime(row.AssignedAt, row.Timestamp)
		if err != nil {
			skipped = multierr.Append(skipped, fmt.Errorf("assignment %s: %w", row.ID, err))
			j.metrics.IncSkipped(skipReasonMalformed)
			j.logg.Warn(j.logg.WithFields(ctx, map[string]any{
				"assignment_id": row.ID.String(),
				"error":         err.Error(),
			}), "skipping assignment with unusable timestamp")
			continue
		}
		if retention.IsExpired(effective, now) {
			marked = append(marked, row.ID)
		}
	}

	summaryCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned": len(rows),
		"marked":  len(marked),
		"skipped": len(multierr.Errors(skipped)),
	})
	if len(marked) == 0 {
		j.logg.Info(summaryCtx, "no records to delete")
		return 0, nil
	}

	result, err := j.store.DeleteWithBills(ctx, marked)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "pickup retention delete")
	}
	deleted := int(result.Assignments)
	j.metrics.AddDeleted(deleted)

	summaryCtx = j.logg.WithField(summaryCtx, "bills_deleted", result.Bills)
	j.logg.Info(summaryCtx, fmt.Sprintf("deleted %d records", deleted))
	return deleted, nil
}
