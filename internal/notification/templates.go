package notification

import (
	"fmt"
	"time"
)

type TemplateData struct {
	AppointmentID uint
	BusinessName  string
	ClientName    string
	ClientPhone   string
	ClientEmail   string
	ServiceName   string
	StaffName     string
	Start         time.Time
}

// Build renders the Turkish text for kind. Start must already be in the
// account's location.
func Build(kind Kind, d TemplateData) Message {
	when := d.Start.Format("02.01.2006 15:04")

	var subject, body string
	switch kind {
	case KindCreated:
		subject = "Randevunuz oluşturuldu"
		body = fmt.Sprintf(
			"Sayın %s, %s tarihinde %s hizmeti için randevunuz oluşturulmuştur. Personel: %s. %s",
			d.ClientName, when, d.ServiceName, d.StaffName, d.BusinessName,
		)
	case KindCancelled:
		subject = "Randevunuz iptal edildi"
		body = fmt.Sprintf(
			"Sayın %s, %s tarihli %s randevunuz iptal edilmiştir. %s",
			d.ClientName, when, d.ServiceName, d.BusinessName,
		)
	case KindDeleted:
		subject = "Randevunuz kaldırıldı"
		body = fmt.Sprintf(
			"Sayın %s, %s tarihli %s randevunuz sistemden kaldırılmıştır. Bilgi için %s ile iletişime geçebilirsiniz.",
			d.ClientName, when, d.ServiceName, d.BusinessName,
		)
	case KindReminder:
		subject = "Randevu hatırlatması"
		body = fmt.Sprintf(
			"Sayın %s, %s tarihindeki %s randevunuzu hatırlatırız. %s",
			d.ClientName, when, d.ServiceName, d.BusinessName,
		)
	}

	return Message{
		Kind:          kind,
		AppointmentID: d.AppointmentID,
		Phone:         d.ClientPhone,
		Email:         d.ClientEmail,
		Subject:       subject,
		Body:          body,
	}
}
