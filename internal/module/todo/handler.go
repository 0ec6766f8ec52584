package todo

import (
	"context"
	"encoding/json"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/rpc"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// Handler exposes the todo store on the message bus.
type Handler struct {
	service *Service
}

// NewHandler creates a new todo handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterHandlers registers all todo store patterns.
func (h *Handler) RegisterHandlers(b *bus.Bus) {
	b.Handle(rpc.TodoCreateTodo, h.createTodo)
	b.Handle(rpc.TodoGetTodoWithID, h.getTodoByID)
	b.Handle(rpc.TodoGetTodosByUser, h.getTodosByUser)
	b.Handle(rpc.TodoGetTodosByTeam, h.getTodosByTeam)
	b.Handle(rpc.TodoGetTodosWithFilter, h.getTodosWithFilter)
	b.Handle(rpc.TodoUpdateTodo, h.updateTodo)
	b.Handle(rpc.TodoDeleteTodo, h.deleteTodo)
}

func (h *Handler) createTodo(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.CreateTodoRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.CreateTodo(ctx, req)
}

func (h *Handler) getTodoByID(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.GetTodoRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.GetTodoByID(ctx, req.TodoID)
}

func (h *Handler) getTodosByUser(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.GetTodosByUserRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.GetTodosByUser(ctx, req)
}

func (h *Handler) getTodosByTeam(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.GetTodosByTeamRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.GetTodosByTeam(ctx, req)
}

func (h *Handler) getTodosWithFilter(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.TodoFilterRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.GetTodosWithFilter(ctx, req)
}

func (h *Handler) updateTodo(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.UpdateTodoRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return h.service.UpdateTodo(ctx, req)
}

func (h *Handler) deleteTodo(ctx context.Context, payload json.RawMessage) (any, error) {
	var req rpc.DeleteTodoRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}
	return nil, h.service.DeleteTodo(ctx, req)
}

func decode(payload json.RawMessage, out any) error {
	if err := json.Unmarshal(payload, out); err != nil {
		return apperrors.BadRequest("malformed payload")
	}
	return nil
}
