package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPConfig struct {
	Server       string
	Port         string
	User         string
	Password     string
	From         string
	AuthDisabled bool
}

type SMTPMailer struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, sendMail: smtp.SendMail}
}

func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%s", m.cfg.Server, m.cfg.Port)

	var auth smtp.Auth
	if !m.cfg.AuthDisabled {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Server)
	}

	if err := m.sendMail(addr, auth, m.cfg.From, msg.To, buildMessage(m.cfg.From, msg)); err != nil {
		return fmt.Errorf("failed to send mail %q: %w", msg.Subject, err)
	}
	return nil
}

func buildMessage(from string, msg Message) []byte {
	headers := []string{
		"From: " + from,
		"To: " + strings.Join(msg.To, ", "),
		"Subject: " + msg.Subject,
	}
	if msg.HTML {
		headers = append(headers, "MIME-Version: 1.0", `Content-Type: text/html; charset="UTF-8"`)
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.Body)
}
