package rpc

import (
	"context"

	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/shared/config"
)

// TeamClient calls the team store over the bus.
type TeamClient struct {
	c *caller
}

// NewTeamClient creates a team store client.
func NewTeamClient(b *bus.Bus, cfg *config.BusConfig, logger *zap.Logger) *TeamClient {
	return &TeamClient{c: newCaller(b, "team", cfg, logger)}
}

// CreateTeam creates a team owned and led by the creator.
func (t *TeamClient) CreateTeam(ctx context.Context, req CreateTeamRequest) (*TeamView, error) {
	var out TeamView
	if err := t.c.call(ctx, TeamCreateTeam, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTeam fetches one team.
func (t *TeamClient) GetTeam(ctx context.Context, teamID string) (*TeamView, error) {
	var out TeamView
	if err := t.c.call(ctx, TeamGetTeam, GetTeamRequest{TeamID: teamID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTeam updates mutable team fields.
func (t *TeamClient) UpdateTeam(ctx context.Context, req UpdateTeamRequest) (*TeamView, error) {
	var out TeamView
	if err := t.c.call(ctx, TeamUpdateTeam, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddMember adds a user to the team's member set.
func (t *TeamClient) AddMember(ctx context.Context, req TeamMemberRequest) error {
	return t.c.call(ctx, TeamAddMember, req, nil)
}

// RemoveMember removes a user from the team's member set.
func (t *TeamClient) RemoveMember(ctx context.Context, req TeamMemberRequest) error {
	return t.c.call(ctx, TeamRemoveMember, req, nil)
}

// AddModerator adds a user to the team's moderator set.
func (t *TeamClient) AddModerator(ctx context.Context, req TeamMemberRequest) error {
	return t.c.call(ctx, TeamAddModerator, req, nil)
}

// RemoveModerator removes a user from the team's moderator set.
func (t *TeamClient) RemoveModerator(ctx context.Context, req TeamMemberRequest) error {
	return t.c.call(ctx, TeamRemoveModerator, req, nil)
}

// AddTodo registers a todo id on the team's todo set.
func (t *TeamClient) AddTodo(ctx context.Context, req TeamTodoRequest) error {
	return t.c.call(ctx, TeamAddTodo, req, nil)
}

// RemoveTodo removes a todo id from the team's todo set.
func (t *TeamClient) RemoveTodo(ctx context.Context, req TeamTodoRequest) error {
	return t.c.call(ctx, TeamRemoveTodo, req, nil)
}
