// Package mailer delivers password recovery messages. The only shipping
// implementation writes the reset link to the server log; a real SMTP
// sender can be dropped in behind the same interface.
package mailer

import (
	"context"
	"fmt"

	"github.com/opsdeck/opsdeck/internal/logging"
)

// Mailer sends a password reset link to an account email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogMailer logs reset links instead of emailing them. Useful for
// development and for deployments without an SMTP relay.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	m.logger.Info(ctx, "password recovery email", "to", email, "link", link)
	return nil
}

// ResetLink builds the password reset URL for the given host and token.
func ResetLink(host, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", host, token)
}
