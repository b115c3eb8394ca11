package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/your-org/storefront-backend/internal/config"
)

// SendGridSender delivers email through the SendGrid v3 API
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridSender creates a SendGrid sender from configuration
func NewSendGridSender(cfg *config.Config) (*SendGridSender, error) {
	if cfg.External.Email.APIKey == "" {
		return nil, fmt.Errorf("SendGrid API key not configured")
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.External.Email.APIKey),
		from:   mail.NewEmail(cfg.External.Email.FromName, cfg.External.Email.FromEmail),
	}, nil
}

// Send delivers one email
func (s *SendGridSender) Send(ctx context.Context, email *Email) error {
	message := buildSendGridMessage(s.from, email)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func buildSendGridMessage(from *mail.Email, email *Email) *mail.SGMailV3 {
	to := mail.NewEmail(email.ToName, email.To[0])
	message := mail.NewSingleEmail(from, email.Subject, to, email.TextContent, email.HTMLContent)
	if len(email.To) > 1 {
		p := message.Personalizations[0]
		for _, addr := range email.To[1:] {
			p.AddTos(mail.NewEmail("", addr))
		}
	}
	message.AddCategories(string(email.Type))
	return message
}
