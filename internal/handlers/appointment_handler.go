package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/httpresp"
	"github.com/huseyingedek/geras-api/internal/middleware"
	ucAppointment "github.com/huseyingedek/geras-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createQuick  *ucAppointment.CreateQuickAppointment
	create       *ucAppointment.CreateAppointment
	update       *ucAppointment.UpdateAppointment
	complete     *ucAppointment.CompleteAppointment
	remove       *ucAppointment.DeleteAppointment
	get          *ucAppointment.GetAppointment
	list         *ucAppointment.ListAppointments
	listByDate   *ucAppointment.ListAppointmentsByDate
	listToday    *ucAppointment.ListTodayAppointments
	listWeekly   *ucAppointment.ListWeeklyAppointments
	availability *ucAppointment.GetAvailability
	validateTime *ucAppointment.ValidateAppointmentTime
}

func NewAppointmentHandler(deps ucAppointment.Deps) *AppointmentHandler {
	return &AppointmentHandler{
		createQuick:  ucAppointment.NewCreateQuickAppointment(deps),
		create:       ucAppointment.NewCreateAppointment(deps),
		update:       ucAppointment.NewUpdateAppointment(deps),
		complete:     ucAppointment.NewCompleteAppointment(deps),
		remove:       ucAppointment.NewDeleteAppointment(deps),
		get:          ucAppointment.NewGetAppointment(deps),
		list:         ucAppointment.NewListAppointments(deps),
		listByDate:   ucAppointment.NewListAppointmentsByDate(deps),
		listToday:    ucAppointment.NewListTodayAppointments(deps),
		listWeekly:   ucAppointment.NewListWeeklyAppointments(deps),
		availability: ucAppointment.NewGetAvailability(deps),
		validateTime: ucAppointment.NewValidateAppointmentTime(deps),
	}
}

// ======================================================
// REQUESTS
// ======================================================

// Required fields are checked by the use cases so that a past date is
// always reported first.
type CreateQuickAppointmentRequest struct {
	FirstName         string           `json:"firstName"`
	LastName          string           `json:"lastName"`
	Email             string           `json:"email"`
	Phone             string           `json:"phone"`
	ServiceID         uint             `json:"serviceId"`
	StaffID           uint             `json:"staffId"`
	AppointmentDate   string           `json:"appointmentDate"`
	Notes             string           `json:"notes"`
	TotalAmount       *decimal.Decimal `json:"totalAmount"`
	RemainingSessions *int             `json:"remainingSessions"`
}

type CreateAppointmentRequest struct {
	SaleID          uint   `json:"saleId"`
	StaffID         uint   `json:"staffId"`
	AppointmentDate string `json:"appointmentDate"`
	Notes           string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	StaffID         *uint   `json:"staffId"`
	AppointmentDate *string `json:"appointmentDate"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
	CompletedAt     *string `json:"completedAt"`
}

type CompleteAppointmentRequest struct {
	Notes       *string `json:"notes"`
	CompletedAt *string `json:"completedAt"`
}

type ValidateTimeRequest struct {
	StaffID              uint   `json:"staffId" binding:"required"`
	ServiceID            uint   `json:"serviceId" binding:"required"`
	AppointmentDate      string `json:"appointmentDate" binding:"required"`
	ExcludeAppointmentID uint   `json:"excludeAppointmentId"`
}

// ======================================================
// HELPERS
// ======================================================

func invalidRequest(c *gin.Context, err error) {
	httperr.Respond(c, httperr.ErrBusiness(httperr.CodeValidation).WithDetails(err.Error()))
}

// optionalUint reads a numeric query parameter; missing means 0.
func optionalUint(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeValidation).
			WithMessage("Geçersiz parametre: "+key))
		return 0, false
	}
	return uint(v), true
}

func appointmentID(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || v == 0 {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeValidation).
			WithMessage("Geçersiz randevu numarası."))
		return 0, false
	}
	return uint(v), true
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) CreateQuick(c *gin.Context) {
	var req CreateQuickAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	out, err := h.createQuick.Execute(c.Request.Context(), ucAppointment.CreateQuickAppointmentInput{
		AccountID:         c.GetUint(middleware.ContextAccountID),
		UserID:            c.GetUint(middleware.ContextUserID),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		ServiceID:         req.ServiceID,
		StaffID:           req.StaffID,
		AppointmentDate:   req.AppointmentDate,
		Notes:             req.Notes,
		TotalAmount:       req.TotalAmount,
		RemainingSessions: req.RemainingSessions,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "Müşteri, satış ve randevu oluşturuldu.", out)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	out, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		AccountID:       c.GetUint(middleware.ContextAccountID),
		UserID:          c.GetUint(middleware.ContextUserID),
		SaleID:          req.SaleID,
		StaffID:         req.StaffID,
		AppointmentDate: req.AppointmentDate,
		Notes:           req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "Randevu oluşturuldu.", out)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	staffID, ok := optionalUint(c, "staffId")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	out, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		AccountID: c.GetUint(middleware.ContextAccountID),
		Page:      page,
		Limit:     limit,
		Status:    c.Query("status"),
		StaffID:   staffID,
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	staffID, ok := optionalUint(c, "staffId")
	if !ok {
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), ucAppointment.ListAppointmentsByDateInput{
		AccountID: c.GetUint(middleware.ContextAccountID),
		StaffID:   staffID,
		Date:      c.Query("date"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) ListToday(c *gin.Context) {
	staffID, ok := optionalUint(c, "staffId")
	if !ok {
		return
	}

	out, err := h.listToday.Execute(c.Request.Context(), c.GetUint(middleware.ContextAccountID), staffID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) ListWeekly(c *gin.Context) {
	staffID, ok := optionalUint(c, "staffId")
	if !ok {
		return
	}

	out, err := h.listWeekly.Execute(c.Request.Context(), ucAppointment.ListWeeklyAppointmentsInput{
		AccountID: c.GetUint(middleware.ContextAccountID),
		StaffID:   staffID,
		StartDate: c.Query("startDate"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	out, err := h.get.Execute(c.Request.Context(), c.GetUint(middleware.ContextAccountID), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) StaffAvailability(c *gin.Context) {
	staffID, ok := optionalUint(c, "staffId")
	if !ok {
		return
	}
	serviceID, ok := optionalUint(c, "serviceId")
	if !ok {
		return
	}

	out, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		AccountID: c.GetUint(middleware.ContextAccountID),
		StaffID:   staffID,
		ServiceID: serviceID,
		Date:      c.Query("date"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !out.IsWorking {
		httpresp.OKWithMessage(c, out.Message, out)
		return
	}
	httpresp.OK(c, out)
}

func (h *AppointmentHandler) ValidateTime(c *gin.Context) {
	var req ValidateTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	out, err := h.validateTime.Execute(c.Request.Context(), ucAppointment.ValidateAppointmentTimeInput{
		AccountID:            c.GetUint(middleware.ContextAccountID),
		StaffID:              req.StaffID,
		ServiceID:            req.ServiceID,
		AppointmentDate:      req.AppointmentDate,
		ExcludeAppointmentID: req.ExcludeAppointmentID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OKWithMessage(c, "Randevu saati uygun.", out)
}

// ======================================================
// UPDATE / COMPLETE / DELETE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	out, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		AccountID:       c.GetUint(middleware.ContextAccountID),
		UserID:          c.GetUint(middleware.ContextUserID),
		AppointmentID:   id,
		StaffID:         req.StaffID,
		AppointmentDate: req.AppointmentDate,
		Status:          req.Status,
		Notes:           req.Notes,
		CompletedAt:     req.CompletedAt,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OKWithMessage(c, "Randevu güncellendi.", out)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	var req CompleteAppointmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			invalidRequest(c, err)
			return
		}
	}

	out, err := h.complete.Execute(c.Request.Context(), ucAppointment.CompleteAppointmentInput{
		AccountID:     c.GetUint(middleware.ContextAccountID),
		UserID:        c.GetUint(middleware.ContextUserID),
		AppointmentID: id,
		Notes:         req.Notes,
		CompletedAt:   req.CompletedAt,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	msg := "Randevu tamamlandı."
	if out.PaymentWarning != nil {
		msg = out.PaymentWarning.Message
	}
	httpresp.OKWithMessage(c, msg, out)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	err := h.remove.Execute(c.Request.Context(), ucAppointment.DeleteAppointmentInput{
		AccountID:     c.GetUint(middleware.ContextAccountID),
		UserID:        c.GetUint(middleware.ContextUserID),
		AppointmentID: id,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OKWithMessage(c, "Randevu silindi.", nil)
}
