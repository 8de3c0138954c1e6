package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/httpresp"
	"github.com/huseyingedek/geras-api/internal/middleware"
	"github.com/huseyingedek/geras-api/internal/usecase/workinghours"
)

type WorkingHoursHandler struct {
	get     *workinghours.GetWorkingHours
	replace *workinghours.ReplaceWorkingHours
}

func NewWorkingHoursHandler(deps workinghours.Deps) *WorkingHoursHandler {
	return &WorkingHoursHandler{
		get:     workinghours.NewGetWorkingHours(deps),
		replace: workinghours.NewReplaceWorkingHours(deps),
	}
}

type WorkingDayConfig struct {
	DayOfWeek *int   `json:"dayOfWeek" binding:"required,weekday"`
	StartTime string `json:"startTime" binding:"omitempty,clock"`
	EndTime   string `json:"endTime" binding:"omitempty,clock"`
	IsWorking bool   `json:"isWorking"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func staffParam(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("staffId"), 10, 64)
	if err != nil || v == 0 {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeValidation).
			WithMessage("Geçersiz personel numarası."))
		return 0, false
	}
	return uint(v), true
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	id, ok := staffParam(c)
	if !ok {
		return
	}

	hours, err := h.get.Execute(c.Request.Context(), c.GetUint(middleware.ContextAccountID), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, hours)
}

// Update replaces the whole week; days missing from the payload are
// treated as not working.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	id, ok := staffParam(c)
	if !ok {
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeInvalidWorkingHours).WithDetails(err.Error()))
		return
	}

	days := make([]workinghours.Day, 0, len(req.Days))
	for _, d := range req.Days {
		days = append(days, workinghours.Day{
			DayOfWeek: *d.DayOfWeek,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			IsWorking: d.IsWorking,
		})
	}

	hours, err := h.replace.Execute(c.Request.Context(), workinghours.ReplaceWorkingHoursInput{
		AccountID: c.GetUint(middleware.ContextAccountID),
		UserID:    c.GetUint(middleware.ContextUserID),
		StaffID:   id,
		Days:      days,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OKWithMessage(c, "Çalışma saatleri güncellendi.", hours)
}
