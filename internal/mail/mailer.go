// Package mail delivers account mails (verification, password reset) over
// SMTP. The sender is optional: without MAIL_HOST the constructor returns a
// disabled mailer and Send* calls only log, so local setups and tests run
// without a mail server.
package mail

import (
	"fmt"
	"log"

	gomail "github.com/wneessen/go-mail"

	"github.com/iliyamo/estate-marketplace/internal/config"
)

type Mailer struct {
	client    *gomail.Client
	from      string
	clientURL string
}

// NewMailer builds a mailer from config. A nil client means sending is
// disabled.
func NewMailer(cfg config.Config) *Mailer {
	m := &Mailer{from: cfg.MailFrom, clientURL: cfg.ClientURL}
	if cfg.MailHost == "" {
		return m
	}
	client, err := gomail.NewClient(cfg.MailHost,
		gomail.WithPort(cfg.MailPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.MailUser),
		gomail.WithPassword(cfg.MailPassword),
	)
	if err != nil {
		log.Printf("mail: client setup failed, sending disabled: %v", err)
		return m
	}
	m.client = client
	return m
}

// SendVerificationEmail mails the raw verification token as a frontend link.
func (m *Mailer) SendVerificationEmail(to, token string) error {
	body := fmt.Sprintf("Click this link to verify your email: %s/auth/verify-account/%s", m.clientURL, token)
	return m.send(to, "Verify Email", body)
}

// SendPasswordResetEmail mails the raw reset token as a frontend link.
func (m *Mailer) SendPasswordResetEmail(to, token string) error {
	body := fmt.Sprintf("Click this link to reset your password: %s/auth/reset-password/%s", m.clientURL, token)
	return m.send(to, "Reset Password", body)
}

func (m *Mailer) send(to, subject, body string) error {
	if m.client == nil {
		log.Printf("mail: sending disabled, skipping %q to %s", subject, to)
		return nil
	}
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return m.client.DialAndSend(msg)
}
