package retention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func TestEffectiveTimePrefersAssignedAt(t *testing.T) {
	assigned := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	got, err := EffectiveTime(&assigned, strPtr("2020-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.True(t, got.Equal(assigned))
}

func TestEffectiveTimeFallsBackToLegacy(t *testing.T) {
	got, err := EffectiveTime(nil, strPtr("2026-03-01T10:00:00.000Z"))
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))

	zero := time.Time{}
	got, err = EffectiveTime(&zero, strPtr("2026-03-01T15:30:00+05:30"))
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)))

	got, err = EffectiveTime(nil, strPtr("2026-03-01T10:00:00"))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())
}

func TestEffectiveTimeMalformed(t *testing.T) {
	_, err := EffectiveTime(nil, nil)
	assert.ErrorIs(t, err, ErrMalformedTimestamp)

	_, err = EffectiveTime(nil, strPtr("  "))
	assert.ErrorIs(t, err, ErrMalformedTimestamp)

	_, err = EffectiveTime(nil, strPtr("yesterday"))
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestIsExpiredBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)

	assert.True(t, IsExpired(now.Add(-10*24*time.Hour), now))
	assert.False(t, IsExpired(now.Add(-3*24*time.Hour), now))
	assert.False(t, IsExpired(Cutoff(now), now), "records exactly at the cutoff are kept")
	assert.True(t, IsExpired(Cutoff(now).Add(-time.Nanosecond), now))
}

func TestCutoffIsUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 3, 10, 8, 30, 0, 0, ist)
	assert.Equal(t, time.Date(2026, 3, 3, 3, 0, 0, 0, time.UTC), Cutoff(now))
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 7, DaysRemaining(now, now))
	assert.Equal(t, 5, DaysRemaining(now.Add(-2*24*time.Hour), now))
	assert.Equal(t, 5, DaysRemaining(now.Add(-2*24*time.Hour-time.Hour), now), "partial days round up")
	assert.Equal(t, 1, DaysRemaining(now.Add(-7*24*time.Hour+time.Minute), now))
	assert.Equal(t, 0, DaysRemaining(now.Add(-7*24*time.Hour), now))
	assert.Equal(t, 0, DaysRemaining(now.Add(-30*24*time.Hour), now))
}

func TestCountdownAgreesWithSweeper(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for _, age := range []time.Duration{0, 24 * time.Hour, 6 * 24 * time.Hour, 7*24*time.Hour + time.Second, 9 * 24 * time.Hour} {
		effective := now.Add(-age)
		if IsExpired(effective, now) {
			assert.Zero(t, DaysRemaining(effective, now), "age %s", age)
		}
	}
}
