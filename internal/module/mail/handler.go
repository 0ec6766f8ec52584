package mail

import (
	"context"
	"encoding/json"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/rpc"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// Handler exposes the mail service on the message bus.
type Handler struct {
	service *Service
}

// NewHandler creates a new mail handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterHandlers registers the mail patterns.
func (h *Handler) RegisterHandlers(b *bus.Bus) {
	b.Handle(rpc.MailSend, h.send)
}

func (h *Handler) send(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.SendMailRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, apperrors.BadRequest("malformed payload")
	}
	return nil, h.service.Send(ctx, req)
}
