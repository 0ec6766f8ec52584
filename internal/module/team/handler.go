package team

import (
	"context"
	"encoding/json"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/rpc"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// Handler exposes the team store on the message bus.
type Handler struct {
	service *Service
}

// NewHandler creates a new team handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterHandlers registers all team store patterns.
func (h *Handler) RegisterHandlers(b *bus.Bus) {
	b.Handle(rpc.TeamCreateTeam, h.createTeam)
	b.Handle(rpc.TeamGetTeam, h.getTeam)
	b.Handle(rpc.TeamUpdateTeam, h.updateTeam)
	b.Handle(rpc.TeamAddMember, h.memberOp(h.service.AddMember))
	b.Handle(rpc.TeamRemoveMember, h.memberOp(h.service.RemoveMember))
	b.Handle(rpc.TeamAddModerator, h.memberOp(h.service.AddModerator))
	b.Handle(rpc.TeamRemoveModerator, h.memberOp(h.service.RemoveModerator))
	b.Handle(rpc.TeamAddTodo, h.todoOp(h.service.AddTodo))
	b.Handle(rpc.TeamRemoveTodo, h.todoOp(h.service.RemoveTodo))
}

func (h *Handler) createTeam(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.CreateTeamRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.CreateTeam(ctx, req)
}

func (h *Handler) getTeam(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.GetTeamRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.GetTeam(ctx, req.TeamID)
}

func (h *Handler) updateTeam(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.UpdateTeamRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.UpdateTeam(ctx, req)
}

func (h *Handler) memberOp(op func(context.Context, rpc.TeamMemberRequest) error) bus.HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req rpc.TeamMemberRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, op(ctx, req)
	}
}

func (h *Handler) todoOp(op func(context.Context, rpc.TeamTodoRequest) error) bus.HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req rpc.TeamTodoRequest
		if err := decode(payload, &req); err != nil {
			return nil, err
		}
		return nil, op(ctx, req)
	}
}

func decode(payload json.RawMessage, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.BadRequest("malformed payload")
	}
	return nil
}
