package notification

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const sendTimeout = 10 * time.Second

// Dispatcher delivers messages off the request path. Failures are logged
// and never retried.
type Dispatcher struct {
	sender Sender
	queue  chan Message
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(sender Sender, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Message, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := d.sender.Send(ctx, msg); err != nil {
			log.Warn().
				Err(err).
				Str("kind", string(msg.Kind)).
				Uint("appointment_id", msg.AppointmentID).
				Str("channel", d.sender.Channel()).
				Msg("notification not delivered")
		}
		cancel()
	}
}

func (d *Dispatcher) Notify(msg Message) {
	select {
	case d.queue <- msg:
	default:
		log.Warn().Str("kind", string(msg.Kind)).Msg("notification queue full, dropping message")
	}
}

func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}
