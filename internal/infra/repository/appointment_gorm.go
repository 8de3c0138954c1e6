package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/models"
)

// TxOptions bounds every write transaction: Timeout caps the whole
// transaction, MaxWait caps how long a row lock may be waited on.
type TxOptions struct {
	Timeout time.Duration
	MaxWait time.Duration
}

type AppointmentGormRepository struct {
	db   *gorm.DB
	opts TxOptions
	inTx bool
}

var _ domain.Repository = (*AppointmentGormRepository)(nil)

func NewAppointmentGormRepository(db *gorm.DB, opts TxOptions) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db, opts: opts}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {

	if r.inTx {
		return fn(r)
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.opts.MaxWait > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.opts.MaxWait.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}

		return fn(&AppointmentGormRepository{db: tx, opts: r.opts, inTx: true})
	})
}

// --------------------------------------------------
// Account
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAccount(
	ctx context.Context,
	accountID uint,
) (*models.Account, error) {

	var acc models.Account
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", accountID, true).
		First(&acc).Error; err != nil {
		return nil, notFound(err)
	}
	return &acc, nil
}

// --------------------------------------------------
// Staff / Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetActiveStaff(
	ctx context.Context,
	accountID uint,
	staffID uint,
) (*models.Staff, error) {

	var staff models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ? AND is_active = ?", staffID, accountID, true).
		First(&staff).Error; err != nil {
		return nil, notFound(err)
	}
	return &staff, nil
}

// LockStaff takes a row lock on the staff member so concurrent bookings
// for the same person run their conflict check one after another.
func (r *AppointmentGormRepository) LockStaff(
	ctx context.Context,
	accountID uint,
	staffID uint,
) error {

	var staff models.Staff
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ? AND account_id = ?", staffID, accountID).
		First(&staff).Error
	return notFound(err)
}

func (r *AppointmentGormRepository) GetActiveService(
	ctx context.Context,
	accountID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ? AND is_active = ?", serviceID, accountID, true).
		First(&svc).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	staffID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND day_of_week = ? AND is_working = ?", staffID, weekday, true).
		First(&wh).Error; err != nil {
		return nil, notFound(err)
	}
	return &wh, nil
}

func (r *AppointmentGormRepository) ListWorkingHours(
	ctx context.Context,
	staffID uint,
) ([]models.WorkingHours, error) {

	var rows []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("day_of_week ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceWorkingHours drops the staff member's week and writes rows in its
// place. Callers run it inside Transaction.
func (r *AppointmentGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	staffID uint,
	rows []models.WorkingHours,
) error {

	db := r.db.WithContext(ctx)
	if err := db.Where("staff_id = ?", staffID).Delete(&models.WorkingHours{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].StaffID = staffID
	}
	return db.Create(&rows).Error
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) FindClientByEmailOrPhone(
	ctx context.Context,
	accountID uint,
	email string,
	phone string,
) (*models.Client, error) {

	q := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	switch {
	case email != "" && phone != "":
		q = q.Where("email = ? OR phone = ?", email, phone)
	case email != "":
		q = q.Where("email = ?", email)
	case phone != "":
		q = q.Where("phone = ?", phone)
	default:
		return nil, domain.ErrNotFound
	}

	var client models.Client
	if err := q.First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (r *AppointmentGormRepository) CreateClient(
	ctx context.Context,
	client *models.Client,
) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// --------------------------------------------------
// Sale / Session / Payment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSale(
	ctx context.Context,
	accountID uint,
	saleID uint,
) (*models.Sale, error) {

	var sale models.Sale
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Client").
		Where("id = ? AND account_id = ?", saleID, accountID).
		First(&sale).Error; err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

func (r *AppointmentGormRepository) CreateSale(
	ctx context.Context,
	sale *models.Sale,
) error {
	return r.db.WithContext(ctx).Omit("Client", "Service").Create(sale).Error
}

func (r *AppointmentGormRepository) CountActiveAppointmentsForSale(
	ctx context.Context,
	accountID uint,
	saleID uint,
) (int64, error) {

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("account_id = ? AND sale_id = ? AND status <> ?", accountID, saleID, string(domain.StatusCancelled)).
		Count(&count).Error
	return count, err
}

// DecrementRemainingSessions reports false when the sale had no session left.
func (r *AppointmentGormRepository) DecrementRemainingSessions(
	ctx context.Context,
	saleID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ? AND remaining_sessions > 0", saleID).
		UpdateColumn("remaining_sessions", gorm.Expr("remaining_sessions - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AppointmentGormRepository) IncrementRemainingSessions(
	ctx context.Context,
	saleID uint,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", saleID).
		UpdateColumn("remaining_sessions", gorm.Expr("remaining_sessions + 1")).Error
}

func (r *AppointmentGormRepository) SumCompletedPayments(
	ctx context.Context,
	saleID uint,
) (decimal.Decimal, error) {

	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("sale_id = ? AND status = ?", saleID, models.PaymentStatusCompleted).
		Row().
		Scan(&total)
	return total, err
}

func (r *AppointmentGormRepository) CreateSession(
	ctx context.Context,
	session *models.Session,
) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *AppointmentGormRepository) DeleteLatestCompletedSession(
	ctx context.Context,
	saleID uint,
	staffID uint,
) error {

	var session models.Session
	err := r.db.WithContext(ctx).
		Where("sale_id = ? AND staff_id = ? AND status = ?", saleID, staffID, models.SessionStatusCompleted).
		Order("session_date DESC, id DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&session).Error
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Staff").
		Preload("Sale")
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit("Client", "Service", "Staff", "Sale").
		Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	accountID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.withRelations(ctx).
		Where("id = ? AND account_id = ?", appointmentID, accountID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

// LockAppointment takes the row lock first, then loads the appointment
// with its relations, so the preload queries never carry FOR UPDATE.
func (r *AppointmentGormRepository) LockAppointment(
	ctx context.Context,
	accountID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var locked models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ? AND account_id = ?", appointmentID, accountID).
		First(&locked).Error; err != nil {
		return nil, notFound(err)
	}
	return r.GetAppointment(ctx, accountID, appointmentID)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	accountID uint,
	appointmentID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", appointmentID, accountID).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) ListStaffAppointmentsForDay(
	ctx context.Context,
	accountID uint,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"account_id = ? AND staff_id = ? AND status <> ? AND appointment_date >= ? AND appointment_date < ?",
			accountID,
			staffID,
			string(domain.StatusCancelled),
			start,
			end,
		).
		Order("appointment_date ASC").
		Find(&aps).Error

	return aps, err
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("account_id = ?", f.AccountID)

	if f.StaffID != 0 {
		q = q.Where("staff_id = ?", f.StaffID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.From != nil {
		q = q.Where("appointment_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("appointment_date < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var aps []models.Appointment
	err := q.
		Preload("Client").
		Preload("Service").
		Preload("Staff").
		Preload("Sale").
		Order("appointment_date ASC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&aps).Error

	return aps, total, err
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	accountID uint,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.withRelations(ctx).
		Where("account_id = ? AND appointment_date >= ? AND appointment_date < ?", accountID, start, end)
	if staffID != 0 {
		q = q.Where("staff_id = ?", staffID)
	}

	var aps []models.Appointment
	err := q.Order("appointment_date ASC").Find(&aps).Error
	return aps, err
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *AppointmentGormRepository) ListDueReminders(
	ctx context.Context,
	from time.Time,
	to time.Time,
	limit int,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	err := r.withRelations(ctx).
		Where(
			"status = ? AND reminder_sent_at IS NULL AND appointment_date >= ? AND appointment_date < ?",
			string(domain.StatusPlanned),
			from,
			to,
		).
		Order("appointment_date ASC").
		Limit(limit).
		Find(&aps).Error

	return aps, err
}

func (r *AppointmentGormRepository) MarkReminderSent(
	ctx context.Context,
	appointmentID uint,
	at time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND reminder_sent_at IS NULL", appointmentID).
		UpdateColumn("reminder_sent_at", at).Error
}
