package rpc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/shared/config"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

func testBusConfig() *config.BusConfig {
	return &config.BusConfig{
		CallTimeout:     time.Second,
		BreakerMaxFails: 3,
		BreakerOpenFor:  time.Minute,
	}
}

func TestUserClient_GetUserByID(t *testing.T) {
	b := bus.New(zap.NewNop(), nil)
	b.Handle(UserGetUserByID, func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req GetUserByIDRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return UserSnapshot{ID: req.UserID, Username: "alice"}, nil
	})
	client := NewUserClient(b, testBusConfig(), zap.NewNop())

	snap, err := client.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", snap.ID)
	assert.Equal(t, "alice", snap.Username)
}

func TestClient_ServiceErrorPassesThrough(t *testing.T) {
	b := bus.New(zap.NewNop(), nil)
	notFound := apperrors.NotFound("user")
	b.Handle(UserGetUserByID, func(ctx context.Context, payload json.RawMessage) (any, error) {
		return nil, notFound
	})
	client := NewUserClient(b, testBusConfig(), zap.NewNop())

	_, err := client.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, err, notFound)
}

func TestClient_BreakerOpensOnConsecutiveUpstreamFailures(t *testing.T) {
	// No handler registered: every call is an upstream failure.
	b := bus.New(zap.NewNop(), nil)
	client := NewUserClient(b, testBusConfig(), zap.NewNop())

	for i := 0; i < 3; i++ {
		_, err := client.GetUserByID(context.Background(), "u1")
		require.Error(t, err)
		assert.True(t, apperrors.IsUpstream(err))
	}

	// The breaker is now open; the error is still an upstream failure.
	_, err := client.GetUserByID(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestClient_BusinessErrorsDoNotTripBreaker(t *testing.T) {
	b := bus.New(zap.NewNop(), nil)
	calls := 0
	b.Handle(UserGetUserByID, func(ctx context.Context, payload json.RawMessage) (any, error) {
		calls++
		return nil, apperrors.NotFound("user")
	})
	client := NewUserClient(b, testBusConfig(), zap.NewNop())

	for i := 0; i < 10; i++ {
		_, err := client.GetUserByID(context.Background(), "missing")
		assert.True(t, apperrors.IsNotFound(err))
	}
	// Every call reached the handler; the breaker never opened.
	assert.Equal(t, 10, calls)
}

func TestClient_VoidReply(t *testing.T) {
	b := bus.New(zap.NewNop(), nil)
	b.Handle(UserAddUserTodo, func(ctx context.Context, payload json.RawMessage) (any, error) {
		return nil, nil
	})
	client := NewUserClient(b, testBusConfig(), zap.NewNop())

	assert.NoError(t, client.AddTodo(context.Background(), "u1", "todo-1"))
}
