package appointment

import (
	"strings"

	"github.com/huseyingedek/geras-api/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func InitialStatus() Status {
	return StatusPlanned
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPlanned, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", httperr.ErrBusiness(httperr.CodeInvalidStatus)
}

// CanComplete guards the dedicated completion path.
func CanComplete(current Status) error {
	switch current {
	case StatusCompleted:
		return httperr.ErrBusiness(httperr.CodeAlreadyCompleted)
	case StatusCancelled:
		return httperr.ErrBusiness(httperr.CodeAppointmentCanceled)
	}
	return nil
}
