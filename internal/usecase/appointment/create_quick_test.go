package appointment

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huseyingedek/geras-api/internal/audit"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
	"github.com/huseyingedek/geras-api/internal/notification"
)

func (f *fixture) quickInput(date string) CreateQuickAppointmentInput {
	return CreateQuickAppointmentInput{
		AccountID:       f.accountID,
		UserID:          1,
		FirstName:       "Ayşe",
		LastName:        "Yılmaz",
		Email:           "ayse@example.com",
		Phone:           "+905551112233",
		ServiceID:       f.haircutID,
		StaffID:         f.staffID,
		AppointmentDate: date,
	}
}

func TestCreateQuickAppointment(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateQuickAppointment(f.deps)

	out, err := uc.Execute(context.Background(), f.quickInput("2026-10-19T10:00"))
	require.NoError(t, err)

	assert.Equal(t, "PLANNED", out.Appointment.Status)
	assert.Equal(t, "10:00", out.Appointment.StartClock)
	assert.Equal(t, "10:30", out.Appointment.EndClock)
	assert.Equal(t, "Ayşe Yılmaz", out.Appointment.ClientName)
	require.NotNil(t, out.Appointment.SaleID)
	assert.Equal(t, out.SaleID, *out.Appointment.SaleID)

	sale, ok := f.repo.Sale(out.SaleID)
	require.True(t, ok)
	assert.Equal(t, 1, sale.RemainingSessions)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(500)))

	assert.Equal(t, []notification.Kind{notification.KindCreated}, f.notify.kinds())
	assert.Equal(t, []string{audit.ActionAppointmentCreated}, f.audit.actions())
}

func TestCreateQuickAppointmentSessionDefaults(t *testing.T) {
	f := newFixture(t)
	in := f.quickInput("2026-10-19T11:00")
	in.ServiceID = f.laserID

	out, err := NewCreateQuickAppointment(f.deps).Execute(context.Background(), in)
	require.NoError(t, err)

	sale, _ := f.repo.Sale(out.SaleID)
	assert.Equal(t, 6, sale.RemainingSessions)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(3000)))

	in = f.quickInput("2026-10-20T11:00")
	in.Email, in.Phone = "other@example.com", "+905550000000"
	in.TotalAmount = ptr(decimal.NewFromInt(750))
	in.RemainingSessions = ptr(3)

	out, err = NewCreateQuickAppointment(f.deps).Execute(context.Background(), in)
	require.NoError(t, err)

	sale, _ = f.repo.Sale(out.SaleID)
	assert.Equal(t, 3, sale.RemainingSessions)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(750)))
}

func TestCreateQuickAppointmentRejectsPastDateFirst(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateQuickAppointment(f.deps)

	for _, date := range []string{"2026-10-19T07:00", "2026-10-19T08:00", "2026-10-18T10:00"} {
		// every other field is missing; the date alone decides
		_, err := uc.Execute(context.Background(), CreateQuickAppointmentInput{
			AccountID:       f.accountID,
			AppointmentDate: date,
		})
		assertCode(t, err, httperr.CodePastDate)
	}

	clients, sales, aps := f.repo.Counts()
	assert.Zero(t, clients+sales+aps)
}

func TestCreateQuickAppointmentRequiredFields(t *testing.T) {
	f := newFixture(t)
	in := f.quickInput("2026-10-19T10:00")
	in.FirstName, in.Phone = "", " "

	_, err := NewCreateQuickAppointment(f.deps).Execute(context.Background(), in)
	assertCode(t, err, httperr.CodeValidation)

	be, _ := httperr.AsBusiness(err)
	assert.Equal(t, map[string]any{"missing": []string{"firstName", "phone"}}, be.Details)
}

func TestCreateQuickAppointmentInvalidDate(t *testing.T) {
	f := newFixture(t)

	_, err := NewCreateQuickAppointment(f.deps).Execute(context.Background(), f.quickInput("19/10/2026 10:00"))
	assertCode(t, err, httperr.CodeInvalidDate)
}

func TestCreateQuickAppointmentTimeConflict(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateQuickAppointment(f.deps)

	_, err := uc.Execute(context.Background(), f.quickInput("2026-10-19T10:00"))
	require.NoError(t, err)

	second := f.quickInput("2026-10-19T10:15")
	second.Email, second.Phone = "b@example.com", "+905550000001"
	_, err = uc.Execute(context.Background(), second)
	assertCode(t, err, httperr.CodeTimeConflict)

	be, _ := httperr.AsBusiness(err)
	assert.Contains(t, be.Message, "Ayşe Yılmaz")
	assert.Contains(t, be.Message, "10:00 - 10:30")

	// nothing from the rejected request was written
	clients, sales, aps := f.repo.Counts()
	assert.Equal(t, []int{1, 1, 1}, []int{clients, sales, aps})

	assert.Equal(t, []string{audit.ActionAppointmentCreated, audit.ActionAppointmentConflict}, f.audit.actions())

	// touching intervals do not conflict
	second.AppointmentDate = "2026-10-19T10:30"
	_, err = uc.Execute(context.Background(), second)
	assert.NoError(t, err)
}

func TestCreateQuickAppointmentWorkingHours(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateQuickAppointment(f.deps)

	_, err := uc.Execute(context.Background(), f.quickInput("2026-10-19T16:45"))
	assertCode(t, err, httperr.CodeOutsideWorkingHours)
	be, _ := httperr.AsBusiness(err)
	assert.Contains(t, be.Message, "09:00 - 17:00")

	_, err = uc.Execute(context.Background(), f.quickInput("2026-10-19T08:30"))
	assertCode(t, err, httperr.CodeOutsideWorkingHours)

	// Sunday
	_, err = uc.Execute(context.Background(), f.quickInput("2026-10-25T10:00"))
	assertCode(t, err, httperr.CodeNotWorkingDay)

	_, err = uc.Execute(context.Background(), f.quickInput("2026-10-19T16:30"))
	assert.NoError(t, err)
}

func TestCreateQuickAppointmentDuplicateClient(t *testing.T) {
	f := newFixture(t)
	f.repo.AddClient(models.Client{AccountID: f.accountID, FirstName: "Eski", Phone: "+905551112233"})

	_, err := NewCreateQuickAppointment(f.deps).Execute(context.Background(), f.quickInput("2026-10-19T10:00"))
	assertCode(t, err, httperr.CodeDuplicateClient)

	_, sales, aps := f.repo.Counts()
	assert.Zero(t, sales+aps)

	// the same phone in another tenant is not a duplicate
	f2 := newFixture(t)
	f2.repo.AddClient(models.Client{AccountID: f2.otherAccountID, Phone: "+905551112233"})
	_, err = NewCreateQuickAppointment(f2.deps).Execute(context.Background(), f2.quickInput("2026-10-19T10:00"))
	assert.NoError(t, err)
}

func TestCreateQuickAppointmentRollsBackOnWriteFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.FailOn["CreateAppointment"] = assert.AnError

	_, err := NewCreateQuickAppointment(f.deps).Execute(context.Background(), f.quickInput("2026-10-19T10:00"))
	require.ErrorIs(t, err, assert.AnError)

	clients, sales, aps := f.repo.Counts()
	assert.Zero(t, clients+sales+aps)
	assert.Empty(t, f.notify.kinds())
}

func TestCreateQuickAppointmentTenantIsolation(t *testing.T) {
	f := newFixture(t)
	in := f.quickInput("2026-10-19T10:00")
	in.AccountID = f.otherAccountID

	_, err := NewCreateQuickAppointment(f.deps).Execute(context.Background(), in)
	assertCode(t, err, httperr.CodeServiceNotFound)
	be, _ := httperr.AsBusiness(err)
	assert.Equal(t, http.StatusNotFound, be.Status)
}
