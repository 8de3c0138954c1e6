package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/models"
	"github.com/huseyingedek/geras-api/internal/notification"
	"github.com/huseyingedek/geras-api/internal/notification/mocks"
	"github.com/huseyingedek/geras-api/internal/testutil/memrepo"
)

type seeded struct {
	repo    *memrepo.Repo
	now     time.Time
	dueID   uint
	lateID  uint
	doneID  uint
	otherID uint
}

func seed(t *testing.T) seeded {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	repo := memrepo.New()
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, loc)

	accID := repo.AddAccount(models.Account{BusinessName: "Geras Güzellik", Timezone: "Europe/Istanbul", IsActive: true})
	staffID := repo.AddStaff(models.Staff{AccountID: accID, FullName: "Elif Demir", IsActive: true})
	thirty := 30
	svcID := repo.AddService(models.Service{AccountID: accID, ServiceName: "Saç Kesimi", DurationMinutes: &thirty, IsActive: true})
	clientID := repo.AddClient(models.Client{AccountID: accID, FirstName: "Ayşe", LastName: "Yılmaz", Phone: "+905551112233"})

	add := func(at time.Time, status domain.Status) uint {
		return repo.AddAppointment(models.Appointment{
			AccountID: accID, ClientID: clientID, ServiceID: svcID, StaffID: staffID,
			AppointmentDate: at, Status: string(status),
		})
	}

	return seeded{
		repo:    repo,
		now:     now,
		dueID:   add(now.Add(2*time.Hour+5*time.Minute), domain.StatusPlanned),
		lateID:  add(now.Add(3*time.Hour), domain.StatusPlanned),
		doneID:  add(now.Add(2*time.Hour), domain.StatusCancelled),
		otherID: add(now.Add(2*time.Hour+9*time.Minute), domain.StatusPlanned),
	}
}

func newJob(s seeded, sender notification.Sender) *Job {
	return New(s.repo, sender, Options{
		Spec:   "*/5 * * * *",
		Lead:   2 * time.Hour,
		Window: 10 * time.Minute,
		Now:    func() time.Time { return s.now },
	})
}

func TestRunSendsDueRemindersOnce(t *testing.T) {
	s := seed(t)
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)

	sender.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg notification.Message) error {
			assert.Equal(t, notification.KindReminder, msg.Kind)
			assert.Equal(t, "+905551112233", msg.Phone)
			assert.Contains(t, msg.Body, "Geras Güzellik")
			assert.Contains(t, msg.Body, "19.10.2026 10:")
			return nil
		}).
		Times(2)

	job := newJob(s, sender)

	sent, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	ap, _ := s.repo.Appointment(s.dueID)
	require.NotNil(t, ap.ReminderSentAt)
	late, _ := s.repo.Appointment(s.lateID)
	assert.Nil(t, late.ReminderSentAt)

	// second tick: already stamped, nothing to send
	sent, err = job.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRunLeavesFailedSendsUnstamped(t *testing.T) {
	s := seed(t)
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockSender(ctrl)

	gomock.InOrder(
		sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("provider down")),
		sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil),
	)

	sent, err := newJob(s, sender).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	first, _ := s.repo.Appointment(s.dueID)
	assert.Nil(t, first.ReminderSentAt)
	second, _ := s.repo.Appointment(s.otherID)
	assert.NotNil(t, second.ReminderSentAt)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := seed(t)
	job := New(s.repo, notification.NoopSender{}, Options{Spec: "not a spec"})
	assert.Error(t, job.Start())
}
