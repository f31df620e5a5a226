package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds the outbound mail settings. An empty Username disables
// authentication (local debug servers such as MailHog).
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends auth-flow mail through an SMTP relay using go-mail.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendVerification(ctx context.Context, to, link string) error {
	body, err := renderTemplate("verification_email.html", link)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Email Verification", body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	body, err := renderTemplate("password_reset_email.html", link)
	if err != nil {
		return err
	}
	return m.send(ctx, to, "Password Reset", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail send: %w", err)
	}
	return nil
}
