package appointment

import (
	"time"

	"github.com/huseyingedek/geras-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves the appointment to status to and keeps the
// completedAt/cancelledAt stamps in line with it.
func Transition(ap *models.Appointment, to Status, at time.Time) {
	ap.Status = string(to)

	switch to {
	case StatusCompleted:
		ap.CompletedAt = &at
		ap.CancelledAt = nil
	case StatusCancelled:
		ap.CancelledAt = &at
		ap.CompletedAt = nil
	default:
		ap.CompletedAt = nil
		ap.CancelledAt = nil
	}
}
