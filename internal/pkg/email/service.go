// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Sender delivers a rendered email
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// EmailService renders and sends transactional emails
type EmailService struct {
	config    *config.Config
	sender    Sender
	templates map[string]*template.Template
	logger    *logrus.Logger
}

// NewEmailService creates a new email service with the configured provider
func NewEmailService(cfg *config.Config, logger *logrus.Logger) (*EmailService, error) {
	sender, err := newSender(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewEmailServiceWithSender(cfg, sender, logger)
}

// NewEmailServiceWithSender creates an email service around an explicit sender
func NewEmailServiceWithSender(cfg *config.Config, sender Sender, logger *logrus.Logger) (*EmailService, error) {
	service := &EmailService{
		config:    cfg,
		sender:    sender,
		templates: make(map[string]*template.Template),
		logger:    logger,
	}
	if err := service.loadTemplates(); err != nil {
		return nil, err
	}
	return service, nil
}

func newSender(cfg *config.Config, logger *logrus.Logger) (Sender, error) {
	if !cfg.External.Email.Enabled {
		return &LogSender{logger: logger}, nil
	}

	switch cfg.External.Email.Provider {
	case "sendgrid":
		return NewSendGridSender(cfg)
	case "smtp":
		return NewSMTPSender(cfg)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.External.Email.Provider)
	}
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if len(email.To) == 0 || email.To[0] == "" {
		return fmt.Errorf("email has no recipient")
	}
	if err := s.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("failed to send %s email: %w", email.Type, err)
	}
	return nil
}

// SendOrderConfirmationEmail sends the order placed email
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderEmailData) error {
	data.EmailTemplateData = s.baseData(data.UserName, data.UserEmail)

	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{data.UserEmail},
		ToName:      data.UserName,
		Subject:     fmt.Sprintf("Order confirmation #%s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
	})
}

// SendOrderCancelledEmail notifies the customer that an order was cancelled
func (s *EmailService) SendOrderCancelledEmail(ctx context.Context, data OrderEmailData) error {
	data.EmailTemplateData = s.baseData(data.UserName, data.UserEmail)

	htmlContent, err := s.renderTemplate("order_cancelled", data)
	if err != nil {
		return fmt.Errorf("failed to render order cancelled template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{data.UserEmail},
		ToName:      data.UserName,
		Subject:     fmt.Sprintf("Order #%s cancelled", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderCancelled,
	})
}

// SendTestEmail sends a delivery check email
func (s *EmailService) SendTestEmail(ctx context.Context, to string) error {
	data := s.baseData("", to)

	htmlContent, err := s.renderTemplate("test", data)
	if err != nil {
		return fmt.Errorf("failed to render test template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{to},
		Subject:     fmt.Sprintf("%s email test", s.config.App.Name),
		HTMLContent: htmlContent,
		TextContent: "Email delivery is working.",
		Type:        EmailTypeTest,
	})
}

func (s *EmailService) baseData(userName, userEmail string) EmailTemplateData {
	siteName := s.config.App.CompanyName
	if siteName == "" {
		siteName = s.config.App.Name
	}
	if userName == "" {
		userName = "there"
	}
	return GetBaseTemplateData(siteName, s.config.App.SiteURL, userName, userEmail)
}

// loadTemplates parses every page template together with the shared layout
func (s *EmailService) loadTemplates() error {
	for _, name := range []string{"order_confirmation", "order_cancelled", "test"} {
		tmpl, err := template.New(name+".html").ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		s.templates[name] = tmpl
	}
	return nil
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, templateName+".html", data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

// LogSender writes emails to the log instead of delivering them
type LogSender struct {
	logger *logrus.Logger
}

// Send logs the email
func (l *LogSender) Send(_ context.Context, email *Email) error {
	l.logger.WithFields(logrus.Fields{
		"to":      email.To,
		"subject": email.Subject,
		"type":    email.Type,
	}).Info("email delivery disabled, not sending")
	return nil
}
