package rpc

import (
	"context"

	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/shared/config"
)

// MailClient calls the mail service over the bus. Mail is fire-and-forget:
// callers never wait on delivery and never see delivery errors.
type MailClient struct {
	c      *caller
	logger *zap.Logger
}

// NewMailClient creates a mail service client.
func NewMailClient(b *bus.Bus, cfg *config.BusConfig, logger *zap.Logger) *MailClient {
	return &MailClient{
		c:      newCaller(b, "mail", cfg, logger),
		logger: logger,
	}
}

// Send dispatches the mail request in the background. Delivery failures
// are logged, never propagated.
func (m *MailClient) Send(req SendMailRequest) {
	go func() {
		// Detached context: the originating request may already be done.
		if err := m.c.call(context.Background(), MailSend, req, nil); err != nil {
			m.logger.Error("mail send failed",
				zap.String("mail_type", req.MailType),
				zap.String("to", req.User.Email),
				zap.Error(err),
			)
		}
	}()
}
