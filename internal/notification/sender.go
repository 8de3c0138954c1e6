package notification

//go:generate mockgen -source=sender.go -destination=mocks/sender_mock.go -package=mocks

import (
	"context"
	"errors"
)

type Kind string

const (
	KindCreated   Kind = "appointment_created"
	KindCancelled Kind = "appointment_cancelled"
	KindDeleted   Kind = "appointment_deleted"
	KindReminder  Kind = "appointment_reminder"
)

// Message is one notification addressed to a client. Channels ignore the
// address they do not use.
type Message struct {
	Kind          Kind
	AppointmentID uint
	Phone         string
	Email         string
	Subject       string
	Body          string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
	Channel() string
}

// Fanout delivers a message over every configured channel.
type Fanout []Sender

func (f Fanout) Channel() string {
	return "fanout"
}

func (f Fanout) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, s := range f {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
