// Package mail delivers password reset links and abuse alerts.
package mail

import (
	"context"
	"log"
	"strings"
)

type Message struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Printf("mail to %s: %s\n%s", strings.Join(msg.To, ", "), msg.Subject, msg.Body)
	return nil
}
