package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	ActionAppointmentCreated   = "appointment.created"
	ActionAppointmentUpdated   = "appointment.updated"
	ActionAppointmentCompleted = "appointment.completed"
	ActionAppointmentDeleted   = "appointment.deleted"
	ActionAppointmentConflict  = "appointment.conflict"
	ActionWorkingHoursReplaced = "working_hours.replaced"

	EntityAppointment = "appointment"
	EntityStaff       = "staff"
)

type Event struct {
	AccountID uint
	UserID    *uint
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

// Store persists a single audit event.
type Store interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	store Store
	queue chan Event
	wg    sync.WaitGroup
	once  sync.Once
}

func NewDispatcher(store Store) *Dispatcher {
	d := &Dispatcher{
		store: store,
		queue: make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.store.Log(ctx, ev); err != nil {
			log.Error().Err(err).Str("action", ev.Action).Msg("audit write failed")
		}
		cancel()
	}
}

// Dispatch never blocks the request path; when the queue is full the
// event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}

func Ptr(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
