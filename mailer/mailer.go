package mailer

import "context"

// Message is one composed notification, carrying both body variants.
type Message struct {
	To        string
	From      string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer hands a composed message to an email relay. Best-effort: the
// pipeline awaits only the relay call itself, never delivery.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
