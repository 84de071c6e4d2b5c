package mailer

import (
	"context"

	"github.com/readytoruncq/fieldservice-uploads/logging"
)

// DisabledMailer stands in when no relay credentials are configured: every
// message is dropped with an error log, uploads themselves are unaffected.
type DisabledMailer struct {
	reason string
	logger logging.Logger
}

func NewDisabledMailer(reason string, l logging.Logger) *DisabledMailer {
	return &DisabledMailer{reason: reason, logger: l}
}

func (m *DisabledMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Error("notification dropped, mailer disabled", "reason", m.reason, "subject", msg.Subject)
	return nil
}
