// Package retention holds the pickup retention window shared by the sweeper
// and the history countdown.
package retention

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Window is how long a completed assignment is kept after it was assigned.
const Window = 7 * 24 * time.Hour

// ErrMalformedTimestamp marks a record whose effective timestamp is missing
// or unparseable. Such records are never expired.
var ErrMalformedTimestamp = errors.New("missing or malformed assignment timestamp")

var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
}

// EffectiveTime resolves assigned_at, falling back to the legacy timestamp text.
func EffectiveTime(assignedAt *time.Time, legacy *string) (time.Time, error) {
	if assignedAt != nil && !assignedAt.IsZero() {
		return assignedAt.UTC(), nil
	}
	if legacy == nil || strings.TrimSpace(*legacy) == "" {
		return time.Time{}, ErrMalformedTimestamp
	}
	return ParseLegacy(*legacy)
}

// ParseLegacy parses the ISO-8601 text written by older clients. Values
// without a zone are read as UTC.
func ParseLegacy(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range legacyLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, value)
}

// Cutoff returns the instant before which completed assignments expire.
func Cutoff(now time.Time) time.Time {
	return now.UTC().Add(-Window)
}

// IsExpired reports whether effective is strictly older than the cutoff.
func IsExpired(effective, now time.Time) bool {
	return effective.UTC().Before(Cutoff(now))
}

// DeletionDue is the instant the sweeper may remove the record.
func DeletionDue(effective time.Time) time.Time {
	return effective.UTC().Add(Window)
}

// DaysRemaining rounds the time left before deletion up to whole days and
// never goes below zero.
func DaysRemaining(effective, now time.Time) int {
	left := DeletionDue(effective).Sub(now.UTC())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}
