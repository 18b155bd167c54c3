package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/scrappickup-backend/api/responses"
	"github.com/angelmondragon/scrappickup-backend/api/validators"
	"github.com/angelmondragon/scrappickup-backend/internal/bills"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/logger"
)

type invoiceGetter interface {
	GetInvoice(ctx context.Context, mobile string, assignmentID uuid.UUID) (*bills.Invoice, error)
}

// BillDetail returns the invoice of one of the caller's assignments.
func BillDetail(svc invoiceGetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bill service unavailable"))
			return
		}
		sess, err := requireSession(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignmentID, err := validators.ParseUUIDParam(r, "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.GetInvoice(r.Context(), sess.Phone, assignmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}
