package enums

import "fmt"

// PickupStatus is the raw status string shared by user profiles and pickup
// assignments. Stored values are written by the consumer app and by vendor
// tooling, so readers must tolerate values outside this set.
type PickupStatus string

const (
	PickupStatusPending    PickupStatus = "Pending"
	PickupStatusOnSchedule PickupStatus = "On-Schedule"
	PickupStatusCompleted  PickupStatus = "Completed"
)

var validPickupStatuses = []PickupStatus{
	PickupStatusPending,
	PickupStatusOnSchedule,
	PickupStatusCompleted,
}

// String implements fmt.Stringer.
func (p PickupStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PickupStatus.
func (p PickupStatus) IsValid() bool {
	for _, candidate := range validPickupStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsActive reports whether a pickup is still in flight for the user.
func (p PickupStatus) IsActive() bool {
	return p == PickupStatusPending || p == PickupStatusOnSchedule
}

// ParsePickupStatus converts raw input into a PickupStatus.
func ParsePickupStatus(value string) (PickupStatus, error) {
	for _, candidate := range validPickupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pickup status %q", value)
}
