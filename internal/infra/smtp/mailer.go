package smtp

import (
	"fmt"
	"net/smtp"
)

// Mailer sends notification emails. Sends are best-effort: the durable
// notification row is the source of truth, email is a convenience copy.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

// NewMailer builds an SMTP mailer. Returns nil when no host is configured,
// which callers treat as "email disabled".
func NewMailer(host, port, from, username, password string) Mailer {
	if host == "" {
		return nil
	}
	return &mailer{host: host, port: port, from: from, username: username, password: password}
}

func (m *mailer) SendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
