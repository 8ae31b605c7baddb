// Package mailer delivers one-time codes over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"mindvault/internal/domain"
)

// Config contains SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends OTP mail through an authenticated SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// New creates an SMTP mailer.
func New(cfg Config) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From}, nil
}

// SendOTP mails a verification or reset code.
func (m *SMTPMailer) SendOTP(ctx context.Context, email, otp string, purpose domain.VerificationPurpose) error {
	subject := "Verify Your MindVault Account"
	body := fmt.Sprintf("Your verification code is: %s. It expires in 5 minutes.", otp)
	if purpose == domain.PurposeReset {
		subject = "Reset Your MindVault Password"
		body = fmt.Sprintf("Your password reset code is: %s. It expires in 5 minutes.", otp)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
