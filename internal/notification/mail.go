package notification

import (
	"context"

	"gopkg.in/gomail.v2"
)

type MailSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewMailSender(host string, port int, user, pass, from string) *MailSender {
	if from == "" {
		from = user
	}
	return &MailSender{
		from:   from,
		dialer: gomail.NewDialer(host, port, user, pass),
	}
}

func (s *MailSender) Channel() string {
	return "smtp"
}

func (s *MailSender) Send(_ context.Context, msg Message) error {
	if msg.Email == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.Email)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	return s.dialer.DialAndSend(m)
}
