package rpc

import (
	"context"

	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/shared/config"
)

// TodoClient calls the todo store over the bus.
type TodoClient struct {
	c *caller
}

// NewTodoClient creates a todo store client.
func NewTodoClient(b *bus.Bus, cfg *config.BusConfig, logger *zap.Logger) *TodoClient {
	return &TodoClient{c: newCaller(b, "todo", cfg, logger)}
}

// CreateTodo creates a todo for the creator.
func (t *TodoClient) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoView, error) {
	var out TodoView
	if err := t.c.call(ctx, TodoCreateTodo, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTodoByID fetches one todo.
func (t *TodoClient) GetTodoByID(ctx context.Context, todoID string) (*TodoView, error) {
	var out TodoView
	if err := t.c.call(ctx, TodoGetTodoWithID, GetTodoRequest{TodoID: todoID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTodosByUser lists a user's todos, paginated.
func (t *TodoClient) GetTodosByUser(ctx context.Context, req GetTodosByUserRequest) (*TodoListResponse, error) {
	var out TodoListResponse
	if err := t.c.call(ctx, TodoGetTodosByUser, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTodosByTeam lists a team's non-private todos, paginated.
func (t *TodoClient) GetTodosByTeam(ctx context.Context, req GetTodosByTeamRequest) (*TodoListResponse, error) {
	var out TodoListResponse
	if err := t.c.call(ctx, TodoGetTodosByTeam, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTodosWithFilter lists non-private todos matching the filter.
func (t *TodoClient) GetTodosWithFilter(ctx context.Context, req TodoFilterRequest) (*TodoListResponse, error) {
	var out TodoListResponse
	if err := t.c.call(ctx, TodoGetTodosWithFilter, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTodo updates mutable todo fields.
func (t *TodoClient) UpdateTodo(ctx context.Context, req UpdateTodoRequest) (*TodoView, error) {
	var out TodoView
	if err := t.c.call(ctx, TodoUpdateTodo, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTodo deletes a todo on behalf of the acting user.
func (t *TodoClient) DeleteTodo(ctx context.Context, req DeleteTodoRequest) error {
	return t.c.call(ctx, TodoDeleteTodo, req, nil)
}
