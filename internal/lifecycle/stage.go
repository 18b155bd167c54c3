// Package lifecycle turns a user's raw pickup status into the progress view
// shown by the app.
package lifecycle

import (
	"strings"

	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
)

// Stage is the step index of the progress indicator.
type Stage int

const (
	StageNone       Stage = -1
	StageOrdered    Stage = 0
	StageOnSchedule Stage = 1
	StageCompleted  Stage = 2
)

// StageFromStatus maps a raw status; empty or unknown values map to StageNone.
func StageFromStatus(status string) Stage {
	switch enums.PickupStatus(strings.TrimSpace(status)) {
	case enums.PickupStatusPending:
		return StageOrdered
	case enums.PickupStatusOnSchedule:
		return StageOnSchedule
	case enums.PickupStatusCompleted:
		return StageCompleted
	default:
		return StageNone
	}
}

func (s Stage) String() string {
	switch s {
	case StageOrdered:
		return "ordered"
	case StageOnSchedule:
		return "on_schedule"
	case StageCompleted:
		return "completed"
	default:
		return "none"
	}
}

// Active reports whether the user has a task in progress.
func (s Stage) Active() bool {
	return s != StageNone
}
