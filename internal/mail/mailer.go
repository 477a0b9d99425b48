// Package mail abstracts the outbound email transport. The scheduler only
// sees the Mailer interface so tests can inject a fake.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Mailer sends a single HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPConfig holds SMTP transport settings.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPMailer implements Mailer over authenticated SMTP.
type SMTPMailer struct {
	client *gomail.Client
	cfg    SMTPConfig
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP mailer. The connection is established lazily
// per send, so a misconfigured host surfaces as a send failure, not here.
func NewSMTPMailer(cfg SMTPConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, cfg: cfg, logger: logger}, nil
}

// Send delivers one HTML message. A failure here is terminal for the current
// nudge cycle; the scheduler retries on its next run.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromAddress); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		if m.logger != nil {
			m.logger.Warn("smtp_send_failed",
				zap.String("host", m.cfg.Host),
				zap.Error(err),
			)
		}
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
