package appointment

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huseyingedek/geras-api/internal/audit"
	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
	"github.com/huseyingedek/geras-api/internal/notification"
	"github.com/huseyingedek/geras-api/internal/testutil/memrepo"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (n *recordingNotifier) Notify(msg notification.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) kinds() []notification.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := []notification.Kind{}
	for _, m := range n.sent {
		out = append(out, m.Kind)
	}
	return out
}

type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAudit) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []string{}
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

type fixture struct {
	repo   *memrepo.Repo
	deps   Deps
	notify *recordingNotifier
	audit  *recordingAudit
	loc    *time.Location
	now    time.Time

	accountID      uint
	otherAccountID uint
	staffID        uint
	otherStaffID   uint
	haircutID      uint // 30 min, single visit
	laserID        uint // 60 min, session based
}

// newFixture seeds one account whose staff work Monday to Saturday
// 09:00-17:00. The clock is Monday 2026-10-19 08:00 Istanbul time.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	repo := memrepo.New()
	f := &fixture{
		repo:   repo,
		notify: &recordingNotifier{},
		audit:  &recordingAudit{},
		loc:    loc,
		now:    time.Date(2026, 10, 19, 8, 0, 0, 0, loc),
	}

	f.accountID = repo.AddAccount(models.Account{BusinessName: "Geras Güzellik", Timezone: "Europe/Istanbul", IsActive: true})
	f.otherAccountID = repo.AddAccount(models.Account{BusinessName: "Başka Salon", Timezone: "Europe/Istanbul", IsActive: true})

	f.staffID = repo.AddStaff(models.Staff{AccountID: f.accountID, FullName: "Elif Demir", IsActive: true})
	f.otherStaffID = repo.AddStaff(models.Staff{AccountID: f.accountID, FullName: "Zeynep Kaya", IsActive: true})
	for _, staffID := range []uint{f.staffID, f.otherStaffID} {
		for day := 1; day <= 6; day++ {
			repo.AddWorkingHours(models.WorkingHours{StaffID: staffID, DayOfWeek: day, StartTime: "09:00", EndTime: "17:00", IsWorking: true})
		}
	}

	thirty, sixty := 30, 60
	f.haircutID = repo.AddService(models.Service{
		AccountID: f.accountID, ServiceName: "Saç Kesimi", Price: decimal.NewFromInt(500),
		DurationMinutes: &thirty, IsActive: true,
	})
	f.laserID = repo.AddService(models.Service{
		AccountID: f.accountID, ServiceName: "Lazer Epilasyon", Price: decimal.NewFromInt(3000),
		IsSessionBased: true, SessionCount: 6, DurationMinutes: &sixty, IsActive: true,
	})

	f.deps = Deps{
		Repo:     repo,
		Audit:    f.audit,
		Notifier: f.notify,
		Now:      func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, f.loc)
}

// seedSale creates a client and a sale for the laser package.
func (f *fixture) seedSale(remaining int) (clientID, saleID uint) {
	clientID = f.repo.AddClient(models.Client{AccountID: f.accountID, FirstName: "Ayşe", LastName: "Yılmaz", Phone: "+905551112233"})
	saleID = f.repo.AddSale(models.Sale{
		AccountID: f.accountID, ClientID: clientID, ServiceID: f.laserID,
		TotalAmount: decimal.NewFromInt(3000), RemainingSessions: remaining,
	})
	return clientID, saleID
}

func (f *fixture) seedAppointment(saleID uint, start time.Time, status domain.Status) uint {
	sale, _ := f.repo.Sale(saleID)
	return f.repo.AddAppointment(models.Appointment{
		AccountID: f.accountID, ClientID: sale.ClientID, ServiceID: sale.ServiceID,
		StaffID: f.staffID, SaleID: &saleID, AppointmentDate: start, Status: string(status),
	})
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	be, ok := httperr.AsBusiness(err)
	require.Truef(t, ok, "expected business error %s, got %v", code, err)
	assert.Equal(t, code, be.Code)
}

func ptr[T any](v T) *T {
	return &v
}
