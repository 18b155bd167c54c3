package pickups

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/scrappickup-backend/internal/assignments"
	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/angelmondragon/scrappickup-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/pagination"
	"github.com/angelmondragon/scrappickup-backend/pkg/phone"
	"github.com/angelmondragon/scrappickup-backend/pkg/retention"
)

// History lists the assignments stored under either form of the session
// phone, newest first. Completed ones carry the retention countdown.
func (s *service) History(ctx context.Context, sess session.Session, params pagination.Params) (*HistoryPage, error) {
	forms := phone.Forms(sess.Phone, s.countryCode)
	if len(forms) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session phone missing")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, next, err := s.assignments.ListByMobiles(ctx, assignments.ListParams{
		Mobiles: forms,
		Limit:   params.Limit,
		Cursor:  cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pickup history")
	}

	now := s.now()
	page := &HistoryPage{Items: make([]HistoryItem, 0, len(rows))}
	for _, row := range rows {
		page.Items = append(page.Items, s.historyItem(ctx, row, now))
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func (s *service) historyItem(ctx context.Context, row models.PickupAssignment, now time.Time) HistoryItem {
	item := HistoryItem{
		AssignmentID: row.ID,
		Status:       row.Status,
		VendorName:   deref(row.VendorName),
		VendorPhone:  deref(row.VendorPhone),
		Products:     row.Products,
		Total:        row.Products.Sum(),
		CreatedAt:    row.CreatedAt,
	}
	if enums.PickupStatus(strings.TrimSpace(row.Status)) != enums.PickupStatusCompleted {
		return item
	}

	effective, err := retention.EffectiveTime(row.AssignedAt, row.Timestamp)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "assignment_id", row.ID.String()), "completed assignment has no usable timestamp")
		return item
	}
	days := retention.DaysRemaining(effective, now)
	item.PickedUpAt = &effective
	item.DaysUntilDeletion = &days
	return item
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
