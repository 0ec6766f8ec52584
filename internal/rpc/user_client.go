package rpc

import (
	"context"

	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/shared/config"
)

// UserClient calls the user store over the bus.
type UserClient struct {
	c *caller
}

// NewUserClient creates a user store client.
func NewUserClient(b *bus.Bus, cfg *config.BusConfig, logger *zap.Logger) *UserClient {
	return &UserClient{c: newCaller(b, "user", cfg, logger)}
}

// GetUserByID fetches one user snapshot.
func (u *UserClient) GetUserByID(ctx context.Context, userID string) (*UserSnapshot, error) {
	var out UserSnapshot
	if err := u.c.call(ctx, UserGetUserByID, GetUserByIDRequest{UserID: userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddTodo registers a todo id on the user's todo set.
func (u *UserClient) AddTodo(ctx context.Context, userID, todoID string) error {
	return u.c.call(ctx, UserAddUserTodo, UserTodoRefRequest{UserID: userID, TodoID: todoID}, nil)
}

// RemoveTodo removes a todo id from the user's todo set.
func (u *UserClient) RemoveTodo(ctx context.Context, userID, todoID string) error {
	return u.c.call(ctx, UserRemoveUserTodo, UserTodoRefRequest{UserID: userID, TodoID: todoID}, nil)
}

// AddTeam registers a team id on the user's team set.
func (u *UserClient) AddTeam(ctx context.Context, userID, teamID string) error {
	return u.c.call(ctx, UserAddUserTeam, UserTeamRefRequest{UserID: userID, TeamID: teamID}, nil)
}

// RemoveTeam removes a team id from the user's team set.
func (u *UserClient) RemoveTeam(ctx context.Context, userID, teamID string) error {
	return u.c.call(ctx, UserRemoveUserTeam, UserTeamRefRequest{UserID: userID, TeamID: teamID}, nil)
}

// Register creates an account and returns the issued token.
func (u *UserClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := u.c.call(ctx, UserRegister, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates by email and password.
func (u *UserClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := u.c.call(ctx, UserLogin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateToken verifies a JWT and returns its claims.
func (u *UserClient) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	var out TokenClaims
	if err := u.c.call(ctx, UserValidateToken, ValidateTokenRequest{Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update updates the acting user's profile fields.
func (u *UserClient) Update(ctx context.Context, req UpdateUserRequest) (*UserSnapshot, error) {
	var out UserSnapshot
	if err := u.c.call(ctx, UserUpdate, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePasswordRequest starts a password reset.
func (u *UserClient) ChangePasswordRequest(ctx context.Context, email string) error {
	return u.c.call(ctx, UserChangePasswordRequest, ChangePasswordRequestRequest{Email: email}, nil)
}

// ChangePassword completes a password reset.
func (u *UserClient) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return u.c.call(ctx, UserChangePassword, req, nil)
}

// BanUser bans an account.
func (u *UserClient) BanUser(ctx context.Context, req BanUserRequest) (*UserSnapshot, error) {
	var out UserSnapshot
	if err := u.c.call(ctx, UserBanUser, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GrantAdmin grants the ADMIN type to an account.
func (u *UserClient) GrantAdmin(ctx context.Context, req AdminGrantRequest) (*UserSnapshot, error) {
	var out UserSnapshot
	if err := u.c.call(ctx, UserGrantAdmin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TakeAdmin revokes the ADMIN type from an account.
func (u *UserClient) TakeAdmin(ctx context.Context, req AdminGrantRequest) (*UserSnapshot, error) {
	var out UserSnapshot
	if err := u.c.call(ctx, UserTakeAdmin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
