package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huseyingedek/geras-api/internal/middleware"
	"github.com/huseyingedek/geras-api/internal/models"
	"github.com/huseyingedek/geras-api/internal/testutil/memrepo"
	ucAppointment "github.com/huseyingedek/geras-api/internal/usecase/appointment"
	"github.com/huseyingedek/geras-api/internal/usecase/workinghours"
	"github.com/huseyingedek/geras-api/internal/validators"
)

type env struct {
	repo      *memrepo.Repo
	router    *gin.Engine
	accountID uint
	staffID   uint
	serviceID uint
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
	Details json.RawMessage `json:"details"`
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validators.Register())

	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, loc)

	repo := memrepo.New()
	e := &env{repo: repo}
	e.accountID = repo.AddAccount(models.Account{BusinessName: "Geras Güzellik", Timezone: "Europe/Istanbul", IsActive: true})
	e.staffID = repo.AddStaff(models.Staff{AccountID: e.accountID, FullName: "Elif Demir", IsActive: true})
	for day := 1; day <= 6; day++ {
		repo.AddWorkingHours(models.WorkingHours{StaffID: e.staffID, DayOfWeek: day, StartTime: "09:00", EndTime: "17:00", IsWorking: true})
	}
	thirty := 30
	e.serviceID = repo.AddService(models.Service{
		AccountID: e.accountID, ServiceName: "Saç Kesimi", Price: decimal.NewFromInt(500),
		DurationMinutes: &thirty, IsActive: true,
	})

	appointments := NewAppointmentHandler(ucAppointment.Deps{
		Repo: repo,
		Now:  func() time.Time { return now },
	})
	hours := NewWorkingHoursHandler(workinghours.Deps{Repo: repo})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextAccountID, e.accountID)
		c.Set(middleware.ContextUserID, uint(1))
		c.Next()
	})
	ap := r.Group("/api/appointments")
	ap.POST("/quick", appointments.CreateQuick)
	ap.POST("", appointments.Create)
	ap.GET("", appointments.List)
	ap.GET("/today", appointments.ListToday)
	ap.GET("/staff-availability", appointments.StaffAvailability)
	ap.POST("/validate-time", appointments.ValidateTime)
	ap.GET("/:id", appointments.Get)
	ap.PUT("/:id", appointments.Update)
	ap.PATCH("/:id/complete", appointments.Complete)
	ap.DELETE("/:id", appointments.Delete)
	r.GET("/api/staff/:staffId/working-hours", hours.Get)
	r.PUT("/api/staff/:staffId/working-hours", hours.Update)

	e.router = r
	return e
}

func (e *env) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func (e *env) quickBody(date string) map[string]any {
	return map[string]any{
		"firstName":       "Ayşe",
		"lastName":        "Yılmaz",
		"phone":           "+905551112233",
		"serviceId":       e.serviceID,
		"staffId":         e.staffID,
		"appointmentDate": date,
	}
}

func TestQuickCreateThenConflict(t *testing.T) {
	e := newEnv(t)

	code, out := e.do(t, http.MethodPost, "/api/appointments/quick", e.quickBody("2026-10-19T10:00"))
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, out.Success)

	var created ucAppointment.CreateQuickAppointmentOutput
	require.NoError(t, json.Unmarshal(out.Data, &created))
	assert.Equal(t, "10:00", created.Appointment.StartClock)
	assert.NotZero(t, created.SaleID)

	second := e.quickBody("2026-10-19T10:15")
	second["phone"] = "+905550000000"
	code, out = e.do(t, http.MethodPost, "/api/appointments/quick", second)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, out.Success)
	assert.Equal(t, "TIME_CONFLICT", out.Reason)
	assert.Contains(t, string(out.Details), `"appointmentId"`)
}

func TestQuickCreatePastDateWins(t *testing.T) {
	e := newEnv(t)

	code, out := e.do(t, http.MethodPost, "/api/appointments/quick", map[string]any{
		"appointmentDate": "2026-10-18T10:00",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "PAST_DATE", out.Error)
}

func TestAppointmentNotFoundAndBadID(t *testing.T) {
	e := newEnv(t)

	code, out := e.do(t, http.MethodGet, "/api/appointments/999", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "APPOINTMENT_NOT_FOUND", out.Error)

	code, out = e.do(t, http.MethodGet, "/api/appointments/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", out.Error)
}

func TestCompleteAndDeleteFlow(t *testing.T) {
	e := newEnv(t)

	_, out := e.do(t, http.MethodPost, "/api/appointments/quick", e.quickBody("2026-10-19T11:00"))
	var created ucAppointment.CreateQuickAppointmentOutput
	require.NoError(t, json.Unmarshal(out.Data, &created))
	path := "/api/appointments/" + itoa(created.Appointment.ID)

	code, out := e.do(t, http.MethodPatch, path+"/complete", nil)
	require.Equal(t, http.StatusOK, code, out.Message)

	sale, ok := e.repo.Sale(created.SaleID)
	require.True(t, ok)
	assert.Equal(t, 0, sale.RemainingSessions)

	code, out = e.do(t, http.MethodPatch, path+"/complete", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "ALREADY_COMPLETED", out.Error)

	code, _ = e.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, code)

	sale, _ = e.repo.Sale(created.SaleID)
	assert.Equal(t, 1, sale.RemainingSessions)
}

func TestStaffAvailabilityEndpoint(t *testing.T) {
	e := newEnv(t)

	code, out := e.do(t, http.MethodGet,
		"/api/appointments/staff-availability?staffId="+itoa(e.staffID)+"&serviceId="+itoa(e.serviceID)+"&date=2026-10-20", nil)
	require.Equal(t, http.StatusOK, code)

	var av struct {
		IsWorking  bool `json:"isWorking"`
		TotalSlots int  `json:"totalSlots"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &av))
	assert.True(t, av.IsWorking)
	assert.Equal(t, 31, av.TotalSlots)

	// Sunday
	code, out = e.do(t, http.MethodGet,
		"/api/appointments/staff-availability?staffId="+itoa(e.staffID)+"&serviceId="+itoa(e.serviceID)+"&date=2026-10-25", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Personel bu gün çalışmıyor.", out.Message)

	code, out = e.do(t, http.MethodGet, "/api/appointments/staff-availability?staffId=x", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", out.Error)
}

func TestValidateTimeEndpoint(t *testing.T) {
	e := newEnv(t)
	body := map[string]any{
		"staffId":         e.staffID,
		"serviceId":       e.serviceID,
		"appointmentDate": "2026-10-19T16:45",
	}

	code, out := e.do(t, http.MethodPost, "/api/appointments/validate-time", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "OUTSIDE_WORKING_HOURS", out.Reason)

	body["appointmentDate"] = "2026-10-19T16:30"
	code, out = e.do(t, http.MethodPost, "/api/appointments/validate-time", body)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, out.Success)
}

func TestWorkingHoursEndpoints(t *testing.T) {
	e := newEnv(t)
	path := "/api/staff/" + itoa(e.staffID) + "/working-hours"

	code, out := e.do(t, http.MethodPut, path, map[string]any{
		"days": []map[string]any{
			{"dayOfWeek": 1, "startTime": "10:00", "endTime": "18:00", "isWorking": true},
			{"dayOfWeek": 1, "startTime": "10:00", "endTime": "18:00", "isWorking": true},
		},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "DUPLICATE_WORKING_DAY", out.Error)

	code, out = e.do(t, http.MethodPut, path, map[string]any{
		"days": []map[string]any{{"dayOfWeek": 1, "startTime": "25:00", "endTime": "18:00", "isWorking": true}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_WORKING_HOURS", out.Error)

	code, _ = e.do(t, http.MethodPut, path, map[string]any{
		"days": []map[string]any{{"dayOfWeek": 2, "startTime": "10:00", "endTime": "18:00", "isWorking": true}},
	})
	require.Equal(t, http.StatusOK, code)

	code, out = e.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		Data  []models.WorkingHours `json:"data"`
		Total int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, 2, list.Data[0].DayOfWeek)

	code, out = e.do(t, http.MethodGet, "/api/staff/999/working-hours", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "STAFF_NOT_FOUND", out.Error)
}

func itoa(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
