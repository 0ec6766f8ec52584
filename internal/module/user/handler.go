package user

import (
	"context"
	"encoding/json"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/rpc"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// Handler exposes the user store on the message bus.
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterHandlers registers all user store patterns.
func (h *Handler) RegisterHandlers(b *bus.Bus) {
	b.Handle(rpc.UserGetUserByID, h.getUserByID)
	b.Handle(rpc.UserAddUserTodo, h.addTodoRef)
	b.Handle(rpc.UserRemoveUserTodo, h.removeTodoRef)
	b.Handle(rpc.UserAddUserTeam, h.addTeamRef)
	b.Handle(rpc.UserRemoveUserTeam, h.removeTeamRef)
	b.Handle(rpc.UserRegister, h.register)
	b.Handle(rpc.UserLogin, h.login)
	b.Handle(rpc.UserValidateToken, h.validateToken)
	b.Handle(rpc.UserUpdate, h.update)
	b.Handle(rpc.UserChangePasswordRequest, h.changePasswordRequest)
	b.Handle(rpc.UserChangePassword, h.changePassword)
	b.Handle(rpc.UserBanUser, h.banUser)
	b.Handle(rpc.UserGrantAdmin, h.grantAdmin)
	b.Handle(rpc.UserTakeAdmin, h.takeAdmin)
}

func (h *Handler) getUserByID(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.GetUserByIDRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.GetUserByID(ctx, req.UserID)
}

func (h *Handler) addTodoRef(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.UserTodoRefRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, h.service.AddTodoRef(ctx, req.UserID, req.TodoID)
}

func (h *Handler) removeTodoRef(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.UserTodoRefRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, h.service.RemoveTodoRef(ctx, req.UserID, req.TodoID)
}

func (h *Handler) addTeamRef(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.UserTeamRefRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, h.service.AddTeamRef(ctx, req.UserID, req.TeamID)
}

func (h *Handler) removeTeamRef(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.UserTeamRefRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, h.service.RemoveTeamRef(ctx, req.UserID, req.TeamID)
}

func (h *Handler) register(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.RegisterRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.Register(ctx, req)
}

func (h *Handler) login(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.LoginRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.Login(ctx, req)
}

func (h *Handler) validateToken(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.ValidateTokenRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.ValidateToken(ctx, req.Token)
}

func (h *Handler) update(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.UpdateUserRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.Update(ctx, req)
}

func (h *Handler) changePasswordRequest(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.ChangePasswordRequestRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, h.service.ChangePasswordRequest(ctx, req.Email)
}

func (h *Handler) changePassword(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.ChangePasswordRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, h.service.ChangePassword(ctx, req)
}

func (h *Handler) banUser(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.BanUserRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.Ban(ctx, req)
}

func (h *Handler) grantAdmin(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.AdminGrantRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.GrantAdmin(ctx, req)
}

func (h *Handler) takeAdmin(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.AdminGrantRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.TakeAdmin(ctx, req)
}

func decode(payload json.RawMessage, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.BadRequest("malformed payload")
	}
	return nil
}
