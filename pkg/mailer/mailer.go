package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"
)

// Sender delivers a single message with a plain-text body and an HTML alternative.
type Sender interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	opts SMTPOptions
}

func NewSMTPSender(opts SMTPOptions) Sender {
	if opts.Port == 0 {
		opts.Port = 587
	}
	if opts.From == "" {
		opts.From = opts.Username
	}
	return &smtpSender{opts: opts}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.opts.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, textBody)
	if htmlBody != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)
	}

	client, err := mail.NewClient(s.opts.Host,
		mail.WithPort(s.opts.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.opts.Username),
		mail.WithPassword(s.opts.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

type logSender struct{}

// NewLogSender is used when no SMTP relay is configured (local development).
func NewLogSender() Sender {
	return logSender{}
}

func (logSender) Send(_ context.Context, to, subject, textBody, _ string) error {
	log.Printf("[mail] to=%s subject=%q body=%q", to, subject, textBody)
	return nil
}
