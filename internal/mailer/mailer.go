package mailer

import (
	"errors"
	"fmt"
	"log"
	"net/smtp"

	"github.com/fintrack/fintrack/internal/config"
)

var ErrDisabled = errors.New("mailer is not configured")

// Mailer delivers notification emails over SMTP. When credentials are missing
// it runs disabled: every Send fails with ErrDisabled so callers fall into
// their normal delivery-failure path instead of blocking.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	sender   string
	enabled  bool
}

func New(cfg config.Mail) *Mailer {
	m := &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		sender:   cfg.Sender,
		enabled:  cfg.Username != "" && cfg.Password != "",
	}
	if !m.enabled {
		log.Println("Warning: email configuration is incomplete, notifications will not be delivered")
	}
	if m.sender == "" {
		m.sender = cfg.Username
	}
	return m
}

// Send delivers a single plain-text message.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.enabled {
		return ErrDisabled
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		m.sender, to, subject, body,
	))

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.sender, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
