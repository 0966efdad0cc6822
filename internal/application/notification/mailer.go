package notification

import (
	"context"
)

// AccountMailer sends the identity emails (password reset, verification,
// staff invites) through the shared Sender and templates. It satisfies
// the identity application's Mailer port.
type AccountMailer struct {
	sender    Sender
	templates *Templates
}

// NewAccountMailer creates a new account mailer
func NewAccountMailer(sender Sender, templates *Templates) *AccountMailer {
	return &AccountMailer{sender: sender, templates: templates}
}

// SendPasswordReset emails the reset link
func (m *AccountMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	return m.sender.Send(ctx, m.templates.PasswordReset(to, name, token))
}

// SendEmailVerification emails the verification link
func (m *AccountMailer) SendEmailVerification(ctx context.Context, to, name, token string) error {
	return m.sender.Send(ctx, m.templates.EmailVerification(to, name, token))
}

// SendStaffInvite emails a dashboard invite
func (m *AccountMailer) SendStaffInvite(ctx context.Context, to, name, storeName, token string) error {
	return m.sender.Send(ctx, m.templates.StaffInvite(to, name, storeName, token))
}
