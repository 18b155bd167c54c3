package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
	"github.com/angelmondragon/scrappickup-backend/pkg/metrics"
)

const defaultSideDataTimeout = 5 * time.Second

type profileLookup interface {
	FindByPhone(ctx context.Context, phone string) (*models.UserProfile, error)
}

type assignmentFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PickupAssignment, error)
}

type TrackerParams struct {
	Logger          *logger.Logger
	Profiles        profileLookup
	Assignments     assignmentFinder
	SideDataTimeout time.Duration
	Metrics         *metrics.TrackerMetrics
}

// Tracker resolves the current lifecycle view for a session.
type Tracker struct {
	logg        *logger.Logger
	profiles    profileLookup
	assignments assignmentFinder
	timeout     time.Duration
	metrics     *metrics.TrackerMetrics
}

// NewTracker builds a Tracker.
func NewTracker(params TrackerParams) (*Tracker, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile lookup required")
	}
	if params.Assignments == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	timeout := params.SideDataTimeout
	if timeout <= 0 {
		timeout = defaultSideDataTimeout
	}
	return &Tracker{
		logg:        params.Logger,
		profiles:    params.Profiles,
		assignments: params.Assignments,
		timeout:     timeout,
		metrics:     params.Metrics,
	}, nil
}

// Snapshot loads the profile and derives its view. A user without a profile
// has no active task. The vendor lookup runs under the side-data timeout and
// its failure only leaves the vendor slot pending.
func (t *Tracker) Snapshot(ctx context.Context, sess session.Session) (View, error) {
	profile, err := t.profiles.FindByPhone(ctx, sess.Phone)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			view := Derive("", nil, nil)
			t.metrics.IncFetch(view.Stage)
			return view, nil
		}
		return View{}, err
	}

	var assignment *models.PickupAssignment
	if StageFromStatus(profile.Status) == StageOnSchedule && profile.CurrentAssignmentID != nil {
		assignment = t.vendorAssignment(ctx, *profile.CurrentAssignmentID)
	}

	view := Derive(profile.Status, assignment, profile.OTP)
	if view.AssignmentID == nil && view.Vendor != nil && profile.CurrentAssignmentID != nil {
		id := *profile.CurrentAssignmentID
		view.AssignmentID = &id
	}
	t.metrics.IncFetch(view.Stage)
	return view, nil
}

func (t *Tracker) vendorAssignment(ctx context.Context, id uuid.UUID) *models.PickupAssignment {
	sideCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	assignment, err := t.assignments.FindByID(sideCtx, id)
	if err == nil {
		return assignment
	}

	t.metrics.IncSideDataFailure()
	logCtx := t.logg.WithFields(ctx, map[string]any{
		"assignment_id": id.String(),
		"timed_out":     errors.Is(err, context.DeadlineExceeded) || errors.Is(sideCtx.Err(), context.DeadlineExceeded),
		"error":         err.Error(),
	})
	t.logg.Warn(logCtx, "vendor details unavailable; leaving slot pending")
	return nil
}
