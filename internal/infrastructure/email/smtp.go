package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/multistore/backend/internal/application/notification"
	"github.com/multistore/backend/internal/infrastructure/config"
)

// SMTPSender delivers mail through an SMTP relay using gomail
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender from the email configuration
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress),
	}
}

// Send implements notification.Sender
func (s *SMTPSender) Send(ctx context.Context, msg notification.Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
