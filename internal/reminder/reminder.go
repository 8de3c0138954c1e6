package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/models"
	"github.com/huseyingedek/geras-api/internal/notification"
	"github.com/huseyingedek/geras-api/internal/timezone"
)

const batchSize = 200

type Options struct {
	Spec   string
	Lead   time.Duration
	Window time.Duration
	Now    func() time.Time
}

// Job texts clients ahead of their PLANNED appointments. An appointment is
// stamped only after a successful send, so a failed one is retried on the
// next tick while it is still inside the window.
type Job struct {
	repo   domain.Repository
	sender notification.Sender
	opts   Options
	cron   *cron.Cron
}

func New(repo domain.Repository, sender notification.Sender, opts Options) *Job {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Job{
		repo:   repo,
		sender: sender,
		opts:   opts,
		cron:   cron.New(),
	}
}

func (j *Job) Start() error {
	_, err := j.cron.AddFunc(j.opts.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		sent, err := j.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("reminder run failed")
			return
		}
		if sent > 0 {
			log.Info().Int("sent", sent).Msg("reminders sent")
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	log.Info().Str("spec", j.opts.Spec).Msg("reminder job started")
	return nil
}

// Stop waits for a running tick to finish.
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
}

// Run sends every reminder due in [now+lead, now+lead+window) and returns
// how many went out.
func (j *Job) Run(ctx context.Context) (int, error) {
	now := j.opts.Now()
	from := now.Add(j.opts.Lead)
	to := from.Add(j.opts.Window)

	due, err := j.repo.ListDueReminders(ctx, from, to, batchSize)
	if err != nil {
		return 0, err
	}

	accounts := map[uint]*models.Account{}
	sent := 0

	for i := range due {
		ap := &due[i]

		acc, ok := accounts[ap.AccountID]
		if !ok {
			acc, err = j.repo.GetAccount(ctx, ap.AccountID)
			if err != nil {
				log.Warn().Err(err).Uint("account_id", ap.AccountID).Msg("reminder skipped, account unavailable")
				continue
			}
			accounts[ap.AccountID] = acc
		}

		msg := notification.Build(notification.KindReminder, notification.TemplateData{
			AppointmentID: ap.ID,
			BusinessName:  acc.BusinessName,
			ClientName:    ap.Client.FullName(),
			ClientPhone:   ap.Client.Phone,
			ClientEmail:   ap.Client.Email,
			ServiceName:   ap.Service.ServiceName,
			StaffName:     ap.Staff.FullName,
			Start:         ap.AppointmentDate.In(timezone.Location(acc.Timezone)),
		})

		if err := j.sender.Send(ctx, msg); err != nil {
			log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("reminder send failed")
			continue
		}

		if err := j.repo.MarkReminderSent(ctx, ap.ID, now); err != nil {
			log.Error().Err(err).Uint("appointment_id", ap.ID).Msg("reminder stamp failed")
			continue
		}
		sent++
	}

	return sent, nil
}
