// Package notification delivers purchased codes and operator alerts by email.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	apperrors "github.com/allisson/codepool/internal/errors"
)

// ErrDeliveryDisabled is returned by the disabled mailer when no SMTP relay is configured.
var ErrDeliveryDisabled = errors.New("email delivery disabled")

// Message is a rendered email. Bodies may contain a plaintext code and must never be logged.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer sends rendered messages and returns the generated Message-ID.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SMTPConfig configures the SMTP relay.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	TLSPolicy string
	Timeout   time.Duration
}

// SMTPMailer sends messages through an SMTP relay using go-mail.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer creates an SMTP mailer. No connection is made until Send.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithTLSPolicy(parseTLSPolicy(cfg.TLSPolicy)),
		mail.WithPort(cfg.Port),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, fmt.Sprintf("invalid smtp settings: %v", err))
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// Send delivers msg. Relay failures wrap ErrUnavailable.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) (string, error) {
	email := mail.NewMsg()
	if err := email.From(m.from); err != nil {
		return "", apperrors.Wrap(apperrors.ErrConfiguration, "invalid sender address")
	}
	if err := email.To(msg.To...); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "invalid recipient address")
	}
	email.Subject(msg.Subject)
	email.SetMessageID()
	email.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		email.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	if err := m.client.DialAndSendWithContext(ctx, email); err != nil {
		return "", apperrors.Wrap(apperrors.ErrUnavailable, fmt.Sprintf("smtp delivery failed: %v", err))
	}
	return email.GetMessageID(), nil
}

func parseTLSPolicy(policy string) mail.TLSPolicy {
	switch policy {
	case "opportunistic":
		return mail.TLSOpportunistic
	case "none":
		return mail.NoTLS
	default:
		return mail.TLSMandatory
	}
}

// DisabledMailer is used when SMTP_HOST is empty.
type DisabledMailer struct{}

// NewDisabledMailer creates a mailer that refuses every message.
func NewDisabledMailer() *DisabledMailer {
	return &DisabledMailer{}
}

// Send always returns ErrDeliveryDisabled.
func (d *DisabledMailer) Send(ctx context.Context, msg Message) (string, error) {
	return "", ErrDeliveryDisabled
}
