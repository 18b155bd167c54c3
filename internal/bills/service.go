package bills

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/scrappickup-backend/internal/assignments"
	pkgerrors "github.com/angelmondragon/scrappickup-backend/pkg/errors"
	"github.com/angelmondragon/scrappickup-backend/pkg/phone"
	"github.com/angelmondragon/scrappickup-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the bill of one assignment as shown to its owner.
type Invoice struct {
	BillID       uuid.UUID       `json:"billId"`
	AssignmentID uuid.UUID       `json:"assignmentId"`
	VendorName   string          `json:"vendorName,omitempty"`
	VendorPhone  string          `json:"vendorPhone,omitempty"`
	Status       string          `json:"status"`
	Items        types.LineItems `json:"items"`
	Total        decimal.Decimal `json:"total"`
	IssuedAt     time.Time       `json:"issuedAt"`
}

// Service resolves invoices for the signed-in user.
type Service interface {
	GetInvoice(ctx context.Context, mobile string, assignmentID uuid.UUID) (*Invoice, error)
}

type service struct {
	bills       Repository
	assignments assignments.Repository
	countryCode string
}

// NewService builds the invoice service.
func NewService(bills Repository, assignmentsRepo assignments.Repository, countryCode string) (Service, error) {
	if bills == nil {
		return nil, errors.New("bills repository required")
	}
	if assignmentsRepo == nil {
		return nil, errors.New("assignments repository required")
	}
	return &service{bills: bills, assignments: assignmentsRepo, countryCode: countryCode}, nil
}

// GetInvoice returns NotFound both for unknown assignments and for ones that
// belong to another phone number.
func (s *service) GetInvoice(ctx context.Context, mobile string, assignmentID uuid.UUID) (*Invoice, error) {
	if assignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id is required")
	}

	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	if !ownsAssignment(mobile, assignment.Mobile, s.countryCode) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}

	bill, err := s.bills.FindByAssignmentID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bill")
	}

	items := bill.BillItems
	if len(items) == 0 {
		items = assignment.Products
	}
	return &Invoice{
		BillID:       bill.ID,
		AssignmentID: assignment.ID,
		VendorName:   deref(assignment.VendorName),
		VendorPhone:  deref(assignment.VendorPhone),
		Status:       assignment.Status,
		Items:        items,
		Total:        bill.TotalBill,
		IssuedAt:     bill.CreatedAt,
	}, nil
}

func ownsAssignment(sessionMobile, assignmentMobile, countryCode string) bool {
	target := phone.Normalize(assignmentMobile)
	for _, form := range phone.Forms(sessionMobile, countryCode) {
		if form == target {
			return true
		}
	}
	return false
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
