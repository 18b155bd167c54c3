package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/scrappickup-backend/api/responses"
	"github.com/angelmondragon/scrappickup-backend/api/validators"
	"github.com/angelmondragon/scrappickup-backend/internal/pickups"
	"github.com/angelmondragon/scrappickup-backend/pkg/auth/session"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
	"github.com/angelmondragon/scrappickup-backend/pkg/pagination"
)

// Cursors longer than this cannot have come from a previous page.
const maxCursorLength = 256

type pickupSubmitter interface {
	Submit(ctx context.Context, sess session.Session, input pickups.SubmitInput) (*pickups.RequestDTO, error)
}

type historyLister interface {
	History(ctx context.Context, sess session.Session, params pagination.Params) (*pickups.HistoryPage, error)
}

type pickupSubmitRequest struct {
	Location      string            `json:"location" validate:"max=64"`
	Address       string            `json:"address" validate:"required,max=500"`
	PreferredDate *time.Time        `json:"preferredDate"`
	Items         []cartLineRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

// PickupSubmit records a pickup request for the caller. Replays of the same
// Idempotency-Key are answered by the idempotency middleware.
func PickupSubmit(svc pickupSubmitter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pickup service unavailable"))
			return
		}
		sess, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req pickupSubmitRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Submit(r.Context(), sess, pickups.SubmitInput{
			Location:      strings.TrimSpace(req.Location),
			Address:       strings.TrimSpace(req.Address),
			PreferredDate: req.PreferredDate,
			Items:         toQuoteItems(req.Items),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// PickupHistory returns a cursor page of the caller's assignments.
func PickupHistory(svc historyLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pickup service unavailable"))
			return
		}
		sess, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.History(r.Context(), sess, pagination.Params{
			Limit:  limit,
			Cursor: validators.QueryString(r, "cursor", maxCursorLength),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
