package notification

import "context"

// Message is a rendered email ready to send
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers rendered emails. Implemented in infrastructure/email
// (SMTP via gomail); NopSender serves tests and disabled config.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NopSender discards every message
type NopSender struct{}

// Send implements Sender
func (NopSender) Send(ctx context.Context, msg Message) error {
	return nil
}
