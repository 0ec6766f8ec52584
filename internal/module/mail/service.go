package mail

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/rpc"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
	"github.com/teamtodo/server/internal/utils/metrics"
)

// Service renders and delivers mail for the MAIL_SEND pattern.
type Service struct {
	sender  Sender
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService creates a new mail service.
func NewService(sender Sender, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{sender: sender, logger: logger, metrics: m}
}

// Send renders the template for the mail type and delivers it.
func (s *Service) Send(ctx context.Context, req rpc.SendMailRequest) error {
	if req.User.Email == "" {
		return apperrors.ValidationError("recipient email is required")
	}

	subject, tmpl, err := lookupMailType(req.MailType)
	if err != nil {
		return err
	}

	body, err := renderTemplate(tmpl, map[string]string{
		"Name":  displayName(req.User),
		"Token": req.Token,
		"URL":   req.URL,
	})
	if err != nil {
		return apperrors.Internal("render mail template", err)
	}

	if err := s.sender.Send(ctx, req.User.Email, subject, body); err != nil {
		s.recordSend(req.MailType, "error")
		return apperrors.Internal("deliver mail", err)
	}

	s.recordSend(req.MailType, "ok")
	return nil
}

func lookupMailType(mailType string) (subject, tmpl string, err error) {
	switch mailType {
	case rpc.MailTypeForgotPassword:
		return "Reset your password", forgotPasswordTemplate, nil
	case rpc.MailTypeConfirmation:
		return "Welcome to TeamTodo", confirmationTemplate, nil
	}
	return "", "", apperrors.ValidationError("unknown mail type: " + mailType)
}

func displayName(u rpc.MailUser) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return "there"
	}
	return name
}

func (s *Service) recordSend(mailType, status string) {
	if s.metrics != nil {
		s.metrics.RecordMailSend(mailType, status)
	}
}
