package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

type resendEmails interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendMailer delivers through the Resend HTTP API.
type ResendMailer struct {
	from   string
	emails resendEmails
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{from: from, emails: resend.NewClient(apiKey).Emails}
}

func (m *ResendMailer) Send(_ context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
	}
	if msg.HTML {
		params.Html = msg.Body
	} else {
		params.Text = msg.Body
	}

	resp, err := m.emails.Send(params)
	if err != nil {
		return fmt.Errorf("resend: failed to send %q: %w", msg.Subject, err)
	}
	log.Printf("mail %s sent via resend", resp.Id)
	return nil
}
