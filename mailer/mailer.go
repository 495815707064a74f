// Package mailer sends the account confirmation email over SMTP.
package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	auth "github.com/vendora/go-auth"
)

// SMTPMailer implements auth.Mailer with a single delivery attempt per call;
// retry policy, if any, belongs to the caller.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
	logger  auth.Logger
}

var _ auth.Mailer = (*SMTPMailer)(nil)

// New builds an SMTP mailer from the process configuration.
func New(cfg auth.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		baseURL: cfg.BaseURL,
		logger:  auth.NewZerologLogger("mailer"),
	}
}

func (m *SMTPMailer) WithLogger(logger auth.Logger) *SMTPMailer {
	m.logger = logger
	return m
}

// SendConfirmation delivers the confirmation link for a pending registration.
func (m *SMTPMailer) SendConfirmation(ctx context.Context, to, name, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/confirm/%s", m.baseURL, token)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Confirm your account")
	msg.SetBody("text/html", confirmationBody(name, link))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("confirmation email to %s: %w", to, err)
	}

	m.logger.Info("confirmation email sent", "to", to)
	return nil
}

func confirmationBody(name, link string) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Please confirm your account within 24 hours by following this link:</p>
<p><a href="%s">%s</a></p>
<p>If you did not register, ignore this message.</p>`,
		name, link, link,
	)
}
