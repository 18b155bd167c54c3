package assignments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/scrappickup-backend/pkg/db/dbtest"
	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
	"github.com/angelmondragon/scrappickup-backend/pkg/types"
)

func seedAssignment(t *testing.T, repo Repository, mobile string, status enums.PickupStatus, createdAt time.Time) models.PickupAssignment {
	t.Helper()
	row := models.PickupAssignment{
		Mobile: mobile,
		Status: string(status),
		Products: types.LineItems{
			{Name: "Iron", Quantity: decimal.NewFromInt(3), Rate: decimal.NewFromInt(30), Total: decimal.NewFromInt(90)},
		},
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), &row))
	return row
}

func TestListByStatusFiltersOnStatus(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	done := seedAssignment(t, repo, "9876543210", enums.PickupStatusCompleted, now)
	seedAssignment(t, repo, "9876543210", enums.PickupStatusOnSchedule, now)
	seedAssignment(t, repo, "9123456780", enums.PickupStatusPending, now)

	rows, err := repo.ListByStatus(context.Background(), enums.PickupStatusCompleted)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, done.ID, rows[0].ID)
	require.Len(t, rows[0].Products, 1)
	assert.True(t, rows[0].Products[0].Total.Equal(decimal.NewFromInt(90)))
}

func TestFindByIDNotFound(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestListByMobilesPagesNewestFirst(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		mobile := "9876543210"
		if i == 1 {
			mobile = "+919876543210"
		}
		row := seedAssignment(t, repo, mobile, enums.PickupStatusCompleted, base.Add(time.Duration(i)*time.Hour))
		ids = append(ids, row.ID)
	}
	seedAssignment(t, repo, "9000000000", enums.PickupStatusCompleted, base)

	ctx := context.Background()
	page, next, err := repo.ListByMobiles(ctx, ListParams{Mobiles: []string{"9876543210", "+919876543210"}, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)
	require.NotNil(t, next)

	page, next, err = repo.ListByMobiles(ctx, ListParams{Mobiles: []string{"9876543210", "+919876543210"}, Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)
	assert.Nil(t, next)

	page, next, err = repo.ListByMobiles(ctx, ListParams{})
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Nil(t, next)
}

func TestDeleteByIDsInsideTransaction(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	a := seedAssignment(t, repo, "9876543210", enums.PickupStatusCompleted, now)
	b := seedAssignment(t, repo, "9876543210", enums.PickupStatusCompleted, now)

	err := conn.Transaction(func(tx *gorm.DB) error {
		n, err := repo.WithTx(tx).DeleteByIDs(context.Background(), []uuid.UUID{a.ID, uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return errors.New("rollback")
	})
	require.Error(t, err)

	_, err = repo.FindByID(context.Background(), a.ID)
	require.NoError(t, err, "rolled back delete must leave the row")

	n, err := repo.DeleteByIDs(context.Background(), []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
