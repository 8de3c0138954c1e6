package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/httperr"
)

func errCode(err error) string {
	if err == nil {
		return ""
	}
	if be, ok := httperr.AsBusiness(err); ok {
		return be.Code
	}
	return err.Error()
}

// The dry run and the real create must agree on every input.
func TestValidateTimeMatchesCreate(t *testing.T) {
	dates := []string{
		"2026-10-19T07:00", // past
		"2026-10-19T09:00",
		"2026-10-19T10:15", // overlaps the seeded 10:00-11:00
		"2026-10-19T11:00", // touches it
		"2026-10-19T16:45", // runs past 17:00
		"2026-10-25T10:00", // Sunday
		"not-a-date",
	}

	for _, date := range dates {
		t.Run(date, func(t *testing.T) {
			f := newFixture(t)
			_, saleID := f.seedSale(3)
			f.seedAppointment(saleID, f.at(19, 10, 0), domain.StatusPlanned)

			_, vErr := NewValidateAppointmentTime(f.deps).Execute(context.Background(), ValidateAppointmentTimeInput{
				AccountID: f.accountID, StaffID: f.staffID, ServiceID: f.haircutID, AppointmentDate: date,
			})

			in := f.quickInput(date)
			in.Email, in.Phone = "new@example.com", "+905559990000"
			_, cErr := NewCreateQuickAppointment(f.deps).Execute(context.Background(), in)

			assert.Equal(t, errCode(cErr), errCode(vErr))
		})
	}
}

func TestValidateTimeAccepts(t *testing.T) {
	f := newFixture(t)

	out, err := NewValidateAppointmentTime(f.deps).Execute(context.Background(), ValidateAppointmentTimeInput{
		AccountID: f.accountID, StaffID: f.staffID, ServiceID: f.laserID, AppointmentDate: "2026-10-20T15:00",
	})
	require.NoError(t, err)

	assert.True(t, out.Valid)
	assert.Equal(t, "16:00", out.End.Format("15:04"))
	assert.Equal(t, domain.WindowView{Start: "09:00", End: "17:00"}, out.WorkingHours)

	clients, _, _ := f.repo.Counts()
	assert.Zero(t, clients)
}

func TestValidateTimeExcludesAppointment(t *testing.T) {
	f := newFixture(t)
	_, saleID := f.seedSale(3)
	apID := f.seedAppointment(saleID, f.at(19, 10, 0), domain.StatusPlanned)
	uc := NewValidateAppointmentTime(f.deps)

	in := ValidateAppointmentTimeInput{
		AccountID: f.accountID, StaffID: f.staffID, ServiceID: f.laserID, AppointmentDate: "2026-10-19T10:30",
	}
	_, err := uc.Execute(context.Background(), in)
	assertCode(t, err, httperr.CodeTimeConflict)

	in.ExcludeAppointmentID = apID
	_, err = uc.Execute(context.Background(), in)
	assert.NoError(t, err)
}
