package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/shared/config"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends mail via SMTP.
type SMTPSender struct {
	config *config.MailConfig
	logger *zap.Logger
}

// NewSMTPSender creates a new SMTP sender.
func NewSMTPSender(cfg *config.MailConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{config: cfg, logger: logger}
}

// Send delivers the message over SMTP.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	from := s.config.FromAddress
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.User != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.FromAddress, []string{to}, []byte(msg)); err != nil {
		s.logger.Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// NoOpSender logs instead of sending. Used when SMTP is unconfigured.
type NoOpSender struct {
	logger *zap.Logger
}

// NewNoOpSender creates a no-op sender.
func NewNoOpSender(logger *zap.Logger) *NoOpSender {
	return &NoOpSender{logger: logger}
}

// Send logs but doesn't send.
func (s *NoOpSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.Info("email (no-op)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

func renderTemplate(tmpl string, data map[string]string) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
