// internal/pkg/email/smtp.go
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/your-org/storefront-backend/internal/config"
)

// SMTPSender delivers email over SMTP with implicit TLS on port 465 and STARTTLS otherwise
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

// NewSMTPSender creates an SMTP sender from configuration
func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	ec := cfg.External.Email
	if ec.SMTPHost == "" || ec.SMTPUser == "" {
		return nil, fmt.Errorf("SMTP configuration incomplete: missing host or username")
	}
	return &SMTPSender{
		host:     ec.SMTPHost,
		port:     ec.SMTPPort,
		username: ec.SMTPUser,
		password: ec.SMTPPass,
		from:     ec.FromEmail,
		fromName: ec.FromName,
	}, nil
}

// Send delivers one email
func (s *SMTPSender) Send(ctx context.Context, email *Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	msg := s.buildMessage(email)
	serverAddr := fmt.Sprintf("%s:%d", s.host, s.port)

	if s.port == 465 {
		return s.sendWithTLS(serverAddr, auth, email.To, msg)
	}
	return smtp.SendMail(serverAddr, auth, s.from, email.To, msg)
}

func (s *SMTPSender) buildMessage(email *Email) []byte {
	from := s.from
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.from)
	}

	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLContent)
	return msg.Bytes()
}

// sendWithTLS sends email over an implicit TLS connection
func (s *SMTPSender) sendWithTLS(serverAddr string, auth smtp.Auth, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: s.host})
	if err != nil {
		return fmt.Errorf("failed to create TLS connection: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to send DATA command: %w", err)
	}
	if _, err := writer.Write(msg); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write email content: %w", err)
	}
	return writer.Close()
}
