package mailer

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"

	gomail "gopkg.in/gomail.v2"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

//go:embed notification_email.html
var emailTemplateHTML string

var emailTemplate = template.Must(template.New("notification").Parse(emailTemplateHTML))

// SMTPMailer renders and sends notification emails over SMTP. Each
// recipient is a BCC on a single message so recipients never see each
// other's addresses.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, evt ports.EmailQueuedEvent) error {
	if len(evt.Recipients) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	err := emailTemplate.Execute(&body, struct {
		Subject string
		Body    string
	}{Subject: evt.Subject, Body: evt.Body})
	if err != nil {
		return fmt.Errorf("render email %s: %w", evt.ID, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.from)
	msg.SetHeader("Bcc", evt.Recipients...)
	msg.SetHeader("Subject", evt.Subject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email %s: %w", evt.ID, err)
	}
	return nil
}
