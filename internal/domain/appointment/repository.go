package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/huseyingedek/geras-api/internal/models"
)

// ErrNotFound is returned by repositories for missing or cross-tenant rows.
var ErrNotFound = errors.New("record not found")

type ListFilter struct {
	AccountID uint
	StaffID   uint
	Status    Status
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
}

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction; any error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Account --------
	GetAccount(ctx context.Context, accountID uint) (*models.Account, error)

	// -------- Staff / Service --------
	GetActiveStaff(ctx context.Context, accountID, staffID uint) (*models.Staff, error)
	LockStaff(ctx context.Context, accountID, staffID uint) error
	GetActiveService(ctx context.Context, accountID, serviceID uint) (*models.Service, error)
	GetWorkingHours(ctx context.Context, staffID uint, weekday int) (*models.WorkingHours, error)
	ListWorkingHours(ctx context.Context, staffID uint) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, staffID uint, rows []models.WorkingHours) error

	// -------- Client --------
	FindClientByEmailOrPhone(ctx context.Context, accountID uint, email, phone string) (*models.Client, error)
	CreateClient(ctx context.Context, client *models.Client) error

	// -------- Sale / Session / Payment --------
	GetSale(ctx context.Context, accountID, saleID uint) (*models.Sale, error)
	CreateSale(ctx context.Context, sale *models.Sale) error
	CountActiveAppointmentsForSale(ctx context.Context, accountID, saleID uint) (int64, error)
	DecrementRemainingSessions(ctx context.Context, saleID uint) (bool, error)
	IncrementRemainingSessions(ctx context.Context, saleID uint) error
	SumCompletedPayments(ctx context.Context, saleID uint) (decimal.Decimal, error)
	CreateSession(ctx context.Context, session *models.Session) error
	DeleteLatestCompletedSession(ctx context.Context, saleID, staffID uint) error

	// -------- Appointment --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, accountID, appointmentID uint) (*models.Appointment, error)
	// LockAppointment reads the appointment under a row lock held until the
	// surrounding transaction ends. Only valid inside Transaction.
	LockAppointment(ctx context.Context, accountID, appointmentID uint) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	DeleteAppointment(ctx context.Context, accountID, appointmentID uint) error

	ListStaffAppointmentsForDay(ctx context.Context, accountID, staffID uint, start, end time.Time) ([]models.Appointment, error)
	ListAppointments(ctx context.Context, filter ListFilter) ([]models.Appointment, int64, error)
	ListAppointmentsForPeriod(ctx context.Context, accountID, staffID uint, start, end time.Time) ([]models.Appointment, error)

	// -------- Reminders --------
	ListDueReminders(ctx context.Context, from, to time.Time, limit int) ([]models.Appointment, error)
	MarkReminderSent(ctx context.Context, appointmentID uint, at time.Time) error
}
