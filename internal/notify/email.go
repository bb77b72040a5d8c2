package notify

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"fintrend/internal/config"
)

// EmailChannel sends plain-text mail over SMTP. Works with any provider
// that speaks STARTTLS on the configured port.
type EmailChannel struct {
	cfg *config.Config
}

func NewEmailChannel(cfg *config.Config) *EmailChannel {
	return &EmailChannel{cfg: cfg}
}

func (e *EmailChannel) Name() string {
	return "email"
}

func (e *EmailChannel) Configured() bool {
	return e.cfg.EmailConfigured()
}

func (e *EmailChannel) Send(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(e.cfg.EmailFrom); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(e.cfg.EmailTo...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(e.cfg.SMTPHost,
		mail.WithPort(e.cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(e.cfg.SMTPUser),
		mail.WithPassword(e.cfg.SMTPPass),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
