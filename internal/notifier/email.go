package notifier

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"PriceSentinel/internal/config"
)

// EmailNotifier delivers plain-text mail over SMTP. Credentials come from the
// config value passed at construction.
type EmailNotifier struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
}

// NewEmailNotifier creates an SMTP notifier. Port 465 uses implicit TLS.
func NewEmailNotifier(cfg config.EmailConfig) *EmailNotifier {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Sender, cfg.Password)
	d.SSL = cfg.SMTPPort == 465
	d.TLSConfig = &tls.Config{ServerName: cfg.SMTPHost}
	return &EmailNotifier{cfg: cfg, dialer: d}
}

func (e *EmailNotifier) Name() string { return "email" }

// Send delivers one message. gomail has no context support, so ctx is only
// checked before dialing.
func (e *EmailNotifier) Send(ctx context.Context, subject, body, recipient string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.dialer.DialAndSend(e.message(subject, body, recipient)); err != nil {
		return fmt.Errorf("smtp %s:%d: %w", e.cfg.SMTPHost, e.cfg.SMTPPort, err)
	}
	return nil
}

func (e *EmailNotifier) message(subject, body, recipient string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.Sender)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}
