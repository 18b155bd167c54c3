package lifecycle

import (
	"strings"

	"github.com/angelmondragon/scrappickup-backend/pkg/db/models"
	"github.com/google/uuid"
)

// SlotState tells the client whether side data can be shown yet.
type SlotState string

const (
	SlotPending SlotState = "pending"
	SlotReady   SlotState = "ready"
)

// VendorSlot carries the assigned vendor's contact details.
type VendorSlot struct {
	State SlotState `json:"state"`
	Name  string    `json:"name,omitempty"`
	Phone string    `json:"phone,omitempty"`
}

// OTPSlot carries the code the user reads out to the vendor.
type OTPSlot struct {
	State SlotState `json:"state"`
	Code  string    `json:"code,omitempty"`
}

// View is the derived progress state. Vendor and OTP are only set while the
// pickup is on schedule, and each resolves independently.
type View struct {
	Status       string      `json:"status"`
	Stage        string      `json:"stage"`
	StepIndex    int         `json:"stepIndex"`
	Active       bool        `json:"active"`
	AssignmentID *uuid.UUID  `json:"assignmentId,omitempty"`
	Vendor       *VendorSlot `json:"vendor,omitempty"`
	OTP          *OTPSlot    `json:"otp,omitempty"`
}

// Derive computes the view from the raw status, the current assignment and
// the OTP. It has no side effects; equal inputs give equal views.
func Derive(status string, assignment *models.PickupAssignment, otp *string) View {
	stage := StageFromStatus(status)
	view := View{
		Status:    strings.TrimSpace(status),
		Stage:     stage.String(),
		StepIndex: int(stage),
		Active:    stage.Active(),
	}
	if stage != StageOnSchedule {
		return view
	}

	vendor := &VendorSlot{State: SlotPending}
	if assignment != nil {
		id := assignment.ID
		view.AssignmentID = &id
		name := trimmed(assignment.VendorName)
		if name != "" {
			vendor = &VendorSlot{State: SlotReady, Name: name, Phone: trimmed(assignment.VendorPhone)}
		}
	}
	view.Vendor = vendor

	view.OTP = &OTPSlot{State: SlotPending}
	if code := trimmed(otp); code != "" {
		view.OTP = &OTPSlot{State: SlotReady, Code: code}
	}
	return view
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
