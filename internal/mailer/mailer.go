// Package mailer relays contact form submissions as transactional email.
package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is one outgoing email with plain text and HTML bodies.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendGrid delivers through the SendGrid v3 mail API.
type SendGrid struct {
	client *sendgrid.Client
}

// NewSendGrid returns a SendGrid mailer authenticated with apiKey.
func NewSendGrid(apiKey string) *SendGrid {
	return &SendGrid{client: sendgrid.NewSendClient(apiKey)}
}

// NewSendGridAt targets an alternate API host, such as a regional endpoint.
func NewSendGridAt(apiKey, host string) *SendGrid {
	req := sendgrid.GetRequest(apiKey, "/v3/mail/send", host)
	req.Method = "POST"
	return &SendGrid{client: &sendgrid.Client{Request: req}}
}

// Send implements Mailer. Non-2xx responses are errors.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	email := mail.NewSingleEmail(
		mail.NewEmail("", msg.From),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)
	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
