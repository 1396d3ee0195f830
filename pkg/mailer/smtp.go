package mailer

import (
	"context"
	"fmt"
	"net/smtp"
)

// EmailSender delivers plain-text mail. The auth service depends on this
// interface so tests can swap in a recorder.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, to, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.from, []string{to}, []byte(message))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
