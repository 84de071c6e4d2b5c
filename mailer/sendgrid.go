package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/readytoruncq/fieldservice-uploads/logging"
)

type SendGridMailer struct {
	client *sendgrid.Client
	logger logging.Logger
}

func NewSendGridMailer(apiKey string, l logging.Logger) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is not configured")
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		logger: l,
	}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail("", msg.From)
	to := mail.NewEmail("", msg.To)
	v3 := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	resp, err := m.client.SendWithContext(ctx, v3)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}

	m.logger.Debug("sendgrid accepted message", "status", resp.StatusCode, "to", msg.To)
	return nil
}
