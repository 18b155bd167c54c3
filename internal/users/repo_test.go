package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/scrappickup-backend/pkg/db"
	"github.com/angelmondragon/scrappickup-backend/pkg/db/dbtest"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateProfileDTO{Phone: "9876543210", Location: "Pune"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "en", created.Language)

	byPhone, err := repo.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)

	_, err = repo.FindByPhone(ctx, "+919876543210")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pune", byID.Location)
}

func TestRepositoryRejectsDuplicatePhone(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	_, err := repo.Create(ctx, CreateProfileDTO{Phone: "9876543210"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateProfileDTO{Phone: "9876543210"})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))

	_, err = repo.Create(ctx, CreateProfileDTO{Phone: "+919876543210"})
	assert.NoError(t, err)
}

func TestRepositoryUpdatePreferences(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()
	created, err := repo.Create(ctx, CreateProfileDTO{Phone: "9876543210"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePreferences(ctx, created.ID, enums.LanguageHindi, "Mumbai"))

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", reloaded.Language)
	assert.Equal(t, "Mumbai", reloaded.Location)
}

func TestRepositoryMarkPendingGuardsActivePickups(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	for status, wantMoved := range map[enums.PickupStatus]bool{
		"":                           true,
		enums.PickupStatusCompleted:  true,
		enums.PickupStatusPending:    false,
		enums.PickupStatusOnSchedule: false,
	} {
		created, err := repo.Create(ctx, CreateProfileDTO{Phone: uuid.NewString(), Status: status})
		require.NoError(t, err)

		moved, err := repo.MarkPending(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, wantMoved, moved, "status %q", status)

		reloaded, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		if wantMoved {
			assert.Equal(t, string(enums.PickupStatusPending), reloaded.Status)
		} else {
			assert.Equal(t, string(status), reloaded.Status)
		}
	}
}
