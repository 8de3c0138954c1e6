// Package memrepo is an in-memory appointment repository for use case and
// handler tests. Transactions run one at a time; each snapshots every
// table and restores it when the callback fails.
package memrepo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/models"
)

type tables struct {
	accounts     map[uint]models.Account
	staff        map[uint]models.Staff
	services     map[uint]models.Service
	workingHours map[uint]models.WorkingHours
	clients      map[uint]models.Client
	sales        map[uint]models.Sale
	sessions     map[uint]models.Session
	payments     map[uint]models.Payment
	appointments map[uint]models.Appointment
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t tables) clone() tables {
	return tables{
		accounts:     cloneMap(t.accounts),
		staff:        cloneMap(t.staff),
		services:     cloneMap(t.services),
		workingHours: cloneMap(t.workingHours),
		clients:      cloneMap(t.clients),
		sales:        cloneMap(t.sales),
		sessions:     cloneMap(t.sessions),
		payments:     cloneMap(t.payments),
		appointments: cloneMap(t.appointments),
	}
}

type Repo struct {
	// txMu stands in for row locks: a transaction holds it from begin to
	// commit, so whatever it reads stays current until it returns.
	txMu   sync.Mutex
	mu     sync.Mutex
	t      tables
	nextID uint

	// FailOn makes the named method return the error, for rollback tests.
	FailOn map[string]error
}

var _ domain.Repository = (*Repo)(nil)

func New() *Repo {
	return &Repo{
		t: tables{
			accounts:     map[uint]models.Account{},
			staff:        map[uint]models.Staff{},
			services:     map[uint]models.Service{},
			workingHours: map[uint]models.WorkingHours{},
			clients:      map[uint]models.Client{},
			sales:        map[uint]models.Sale{},
			sessions:     map[uint]models.Session{},
			payments:     map[uint]models.Payment{},
			appointments: map[uint]models.Appointment{},
		},
		FailOn: map[string]error{},
	}
}

func (r *Repo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *Repo) fail(method string) error {
	return r.FailOn[method]
}

// ======================================================
// SEEDING / INSPECTION
// ======================================================

func (r *Repo) AddAccount(a models.Account) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.id()
	r.t.accounts[a.ID] = a
	return a.ID
}

func (r *Repo) AddStaff(s models.Staff) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.id()
	r.t.staff[s.ID] = s
	return s.ID
}

func (r *Repo) AddService(s models.Service) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.id()
	r.t.services[s.ID] = s
	return s.ID
}

func (r *Repo) AddWorkingHours(w models.WorkingHours) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	w.ID = r.id()
	r.t.workingHours[w.ID] = w
	return w.ID
}

func (r *Repo) AddClient(c models.Client) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.id()
	r.t.clients[c.ID] = c
	return c.ID
}

func (r *Repo) AddSale(s models.Sale) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.id()
	r.t.sales[s.ID] = s
	return s.ID
}

func (r *Repo) AddPayment(p models.Payment) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.id()
	r.t.payments[p.ID] = p
	return p.ID
}

func (r *Repo) AddAppointment(a models.Appointment) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.id()
	r.t.appointments[a.ID] = a
	return a.ID
}

func (r *Repo) Sale(id uint) (models.Sale, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.t.sales[id]
	return s, ok
}

func (r *Repo) Appointment(id uint) (models.Appointment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.t.appointments[id]
	return a, ok
}

func (r *Repo) Sessions(saleID uint) []models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Session
	for _, s := range r.t.sessions {
		if s.SaleID == saleID {
			out = append(out, s)
		}
	}
	return out
}

func (r *Repo) Counts() (clients, sales, appointments int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.t.clients), len(r.t.sales), len(r.t.appointments)
}

// ======================================================
// domain.Repository
// ======================================================

// Transaction must not be nested.
func (r *Repo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := r.t.clone()
	next := r.nextID
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.t = snapshot
		r.nextID = next
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *Repo) GetAccount(_ context.Context, accountID uint) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.t.accounts[accountID]
	if !ok || !a.IsActive {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *Repo) GetActiveStaff(_ context.Context, accountID, staffID uint) (*models.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.t.staff[staffID]
	if !ok || s.AccountID != accountID || !s.IsActive {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *Repo) LockStaff(_ context.Context, accountID, staffID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("LockStaff"); err != nil {
		return err
	}
	s, ok := r.t.staff[staffID]
	if !ok || s.AccountID != accountID {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetActiveService(_ context.Context, accountID, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.t.services[serviceID]
	if !ok || s.AccountID != accountID || !s.IsActive {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *Repo) GetWorkingHours(_ context.Context, staffID uint, weekday int) (*models.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range sortedKeys(r.t.workingHours) {
		w := r.t.workingHours[id]
		if w.StaffID == staffID && w.DayOfWeek == weekday && w.IsWorking {
			return &w, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Repo) ListWorkingHours(_ context.Context, staffID uint) ([]models.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.WorkingHours{}
	for _, id := range sortedKeys(r.t.workingHours) {
		if w := r.t.workingHours[id]; w.StaffID == staffID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func (r *Repo) ReplaceWorkingHours(_ context.Context, staffID uint, rows []models.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("ReplaceWorkingHours"); err != nil {
		return err
	}
	for id, w := range r.t.workingHours {
		if w.StaffID == staffID {
			delete(r.t.workingHours, id)
		}
	}
	for i := range rows {
		seen := false
		for _, w := range r.t.workingHours {
			if w.StaffID == staffID && w.DayOfWeek == rows[i].DayOfWeek {
				seen = true
			}
		}
		if seen {
			return errors.New("duplicate key value violates unique constraint \"idx_working_hours_staff_day\"")
		}
		rows[i].ID = r.id()
		rows[i].StaffID = staffID
		r.t.workingHours[rows[i].ID] = rows[i]
	}
	return nil
}

func (r *Repo) FindClientByEmailOrPhone(_ context.Context, accountID uint, email, phone string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range sortedKeys(r.t.clients) {
		c := r.t.clients[id]
		if c.AccountID != accountID {
			continue
		}
		if (email != "" && c.Email == email) || (phone != "" && c.Phone == phone) {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *Repo) CreateClient(_ context.Context, c *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("CreateClient"); err != nil {
		return err
	}
	c.ID = r.id()
	r.t.clients[c.ID] = *c
	return nil
}

func (r *Repo) GetSale(_ context.Context, accountID, saleID uint) (*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.t.sales[saleID]
	if !ok || s.AccountID != accountID || s.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	s.Service = r.t.services[s.ServiceID]
	s.Client = r.t.clients[s.ClientID]
	return &s, nil
}

func (r *Repo) CreateSale(_ context.Context, s *models.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("CreateSale"); err != nil {
		return err
	}
	s.ID = r.id()
	r.t.sales[s.ID] = *s
	return nil
}

func (r *Repo) CountActiveAppointmentsForSale(_ context.Context, accountID, saleID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, a := range r.t.appointments {
		if a.AccountID == accountID && a.SaleID != nil && *a.SaleID == saleID && a.Status != string(domain.StatusCancelled) {
			n++
		}
	}
	return n, nil
}

func (r *Repo) DecrementRemainingSessions(_ context.Context, saleID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.t.sales[saleID]
	if !ok || s.DeletedAt.Valid || s.RemainingSessions <= 0 {
		return false, nil
	}
	s.RemainingSessions--
	r.t.sales[saleID] = s
	return true, nil
}

func (r *Repo) IncrementRemainingSessions(_ context.Context, saleID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.t.sales[saleID]; ok {
		s.RemainingSessions++
		r.t.sales[saleID] = s
	}
	return nil
}

func (r *Repo) SumCompletedPayments(_ context.Context, saleID uint) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, p := range r.t.payments {
		if p.SaleID == saleID && p.Status == models.PaymentStatusCompleted {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *Repo) CreateSession(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("CreateSession"); err != nil {
		return err
	}
	s.ID = r.id()
	r.t.sessions[s.ID] = *s
	return nil
}

func (r *Repo) DeleteLatestCompletedSession(_ context.Context, saleID, staffID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Session
	for _, id := range sortedKeys(r.t.sessions) {
		s := r.t.sessions[id]
		if s.SaleID != saleID || s.StaffID == nil || *s.StaffID != staffID || s.Status != models.SessionStatusCompleted {
			continue
		}
		if latest == nil || !s.SessionDate.Before(latest.SessionDate) {
			latest = &s
		}
	}
	if latest != nil {
		delete(r.t.sessions, latest.ID)
	}
	return nil
}

func (r *Repo) CreateAppointment(_ context.Context, a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("CreateAppointment"); err != nil {
		return err
	}
	a.ID = r.id()
	stored := *a
	stored.Client, stored.Service, stored.Staff, stored.Sale = models.Client{}, models.Service{}, models.Staff{}, nil
	r.t.appointments[a.ID] = stored
	return nil
}

func (r *Repo) hydrate(a models.Appointment) models.Appointment {
	a.Client = r.t.clients[a.ClientID]
	a.Service = r.t.services[a.ServiceID]
	a.Staff = r.t.staff[a.StaffID]
	a.Sale = nil
	if a.SaleID != nil {
		if s, ok := r.t.sales[*a.SaleID]; ok && !s.DeletedAt.Valid {
			a.Sale = &s
		}
	}
	return a
}

func (r *Repo) GetAppointment(_ context.Context, accountID, appointmentID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.t.appointments[appointmentID]
	if !ok || a.AccountID != accountID {
		return nil, domain.ErrNotFound
	}
	a = r.hydrate(a)
	return &a, nil
}

func (r *Repo) LockAppointment(ctx context.Context, accountID, appointmentID uint) (*models.Appointment, error) {
	if err := r.fail("LockAppointment"); err != nil {
		return nil, err
	}
	return r.GetAppointment(ctx, accountID, appointmentID)
}

func (r *Repo) UpdateAppointment(_ context.Context, a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("UpdateAppointment"); err != nil {
		return err
	}
	stored := *a
	stored.Client, stored.Service, stored.Staff, stored.Sale = models.Client{}, models.Service{}, models.Staff{}, nil
	r.t.appointments[a.ID] = stored
	return nil
}

func (r *Repo) DeleteAppointment(_ context.Context, accountID, appointmentID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.t.appointments[appointmentID]
	if !ok || a.AccountID != accountID {
		return domain.ErrNotFound
	}
	delete(r.t.appointments, appointmentID)
	return nil
}

func (r *Repo) filter(keep func(models.Appointment) bool) []models.Appointment {
	out := []models.Appointment{}
	for _, a := range r.t.appointments {
		if keep(a) {
			out = append(out, r.hydrate(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].AppointmentDate.Before(out[j].AppointmentDate)
	})
	return out
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func (r *Repo) ListStaffAppointmentsForDay(_ context.Context, accountID, staffID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(a models.Appointment) bool {
		return a.AccountID == accountID &&
			a.StaffID == staffID &&
			a.Status != string(domain.StatusCancelled) &&
			inRange(a.AppointmentDate, start, end)
	}), nil
}

func (r *Repo) ListAppointments(_ context.Context, f domain.ListFilter) ([]models.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.filter(func(a models.Appointment) bool {
		if a.AccountID != f.AccountID {
			return false
		}
		if f.StaffID != 0 && a.StaffID != f.StaffID {
			return false
		}
		if f.Status != "" && a.Status != string(f.Status) {
			return false
		}
		if f.From != nil && a.AppointmentDate.Before(*f.From) {
			return false
		}
		if f.To != nil && !a.AppointmentDate.Before(*f.To) {
			return false
		}
		return true
	})

	total := int64(len(all))
	from := (f.Page - 1) * f.Limit
	if from > len(all) {
		from = len(all)
	}
	to := from + f.Limit
	if to > len(all) {
		to = len(all)
	}
	return all[from:to], total, nil
}

func (r *Repo) ListAppointmentsForPeriod(_ context.Context, accountID, staffID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(func(a models.Appointment) bool {
		return a.AccountID == accountID &&
			(staffID == 0 || a.StaffID == staffID) &&
			inRange(a.AppointmentDate, start, end)
	}), nil
}

func (r *Repo) ListDueReminders(_ context.Context, from, to time.Time, limit int) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.filter(func(a models.Appointment) bool {
		return a.Status == string(domain.StatusPlanned) &&
			a.ReminderSentAt == nil &&
			inRange(a.AppointmentDate, from, to)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repo) MarkReminderSent(_ context.Context, appointmentID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.t.appointments[appointmentID]
	if !ok {
		return domain.ErrNotFound
	}
	if a.ReminderSentAt == nil {
		a.ReminderSentAt = &at
		r.t.appointments[appointmentID] = a
	}
	return nil
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
