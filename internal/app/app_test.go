package app

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/bus"
	"github.com/teamtodo/server/internal/module/mail"
	"github.com/teamtodo/server/internal/module/team"
	"github.com/teamtodo/server/internal/module/todo"
	"github.com/teamtodo/server/internal/module/user"
	"github.com/teamtodo/server/internal/rpc"
	"github.com/teamtodo/server/internal/saga"
	"github.com/teamtodo/server/internal/shared/config"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// In-memory stores standing in for Postgres so the whole service mesh
// can run over the real bus.

type memUserRepo struct {
	users map[string]*user.User
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (r *memUserRepo) Update(ctx context.Context, u *user.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) AddTodoRef(ctx context.Context, userID, todoID string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.NotFound("user")
	}
	u.Todos = addUnique(u.Todos, todoID)
	return nil
}

func (r *memUserRepo) RemoveTodoRef(ctx context.Context, userID, todoID string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.NotFound("user")
	}
	u.Todos = removeElem(u.Todos, todoID)
	return nil
}

func (r *memUserRepo) AddTeamRef(ctx context.Context, userID, teamID string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.NotFound("user")
	}
	u.Teams = addUnique(u.Teams, teamID)
	return nil
}

func (r *memUserRepo) RemoveTeamRef(ctx context.Context, userID, teamID string) error {
	u, ok := r.users[userID]
	if !ok {
		return apperrors.NotFound("user")
	}
	u.Teams = removeElem(u.Teams, teamID)
	return nil
}

type memTeamRepo struct {
	teams map[string]*team.Team
}

func (r *memTeamRepo) Create(ctx context.Context, t *team.Team) error {
	cp := *t
	r.teams[t.ID] = &cp
	return nil
}

func (r *memTeamRepo) GetByID(ctx context.Context, id string) (*team.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, apperrors.NotFound("team")
	}
	cp := *t
	return &cp, nil
}

func (r *memTeamRepo) Update(ctx context.Context, t *team.Team) error {
	cp := *t
	r.teams[t.ID] = &cp
	return nil
}

func (r *memTeamRepo) Delete(ctx context.Context, id string) error {
	delete(r.teams, id)
	return nil
}

func (r *memTeamRepo) AddToSet(ctx context.Context, teamID, column, elem string) error {
	t, ok := r.teams[teamID]
	if !ok {
		return apperrors.NotFound("team")
	}
	set := r.column(t, column)
	*set = addUnique(*set, elem)
	return nil
}

func (r *memTeamRepo) RemoveFromSet(ctx context.Context, teamID, column, elem string) error {
	t, ok := r.teams[teamID]
	if !ok {
		return apperrors.NotFound("team")
	}
	set := r.column(t, column)
	*set = removeElem(*set, elem)
	return nil
}

func (r *memTeamRepo) column(t *team.Team, column string) *pq.StringArray {
	switch column {
	case team.ColumnModerators:
		return &t.Moderators
	case team.ColumnTodos:
		return &t.Todos
	default:
		return &t.Members
	}
}

type memTodoRepo struct {
	todos map[string]*todo.Todo
}

func (r *memTodoRepo) Create(ctx context.Context, t *todo.Todo) error {
	cp := *t
	r.todos[t.ID] = &cp
	return nil
}

func (r *memTodoRepo) GetByID(ctx context.Context, id string) (*todo.Todo, error) {
	t, ok := r.todos[id]
	if !ok {
		return nil, apperrors.NotFound("todo")
	}
	cp := *t
	return &cp, nil
}

func (r *memTodoRepo) Update(ctx context.Context, t *todo.Todo) error {
	cp := *t
	r.todos[t.ID] = &cp
	return nil
}

func (r *memTodoRepo) Delete(ctx context.Context, id string) error {
	delete(r.todos, id)
	return nil
}

func (r *memTodoRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*todo.Todo, error) {
	var out []*todo.Todo
	for _, t := range r.todos {
		if t.CreatedBy == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTodoRepo) ListByTeam(ctx context.Context, teamID string, limit, offset int) ([]*todo.Todo, error) {
	var out []*todo.Todo
	for _, t := range r.todos {
		if t.Team != nil && *t.Team == teamID && !t.Private {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTodoRepo) ListWithFilter(ctx context.Context, f todo.Filter, limit, offset int) ([]*todo.Todo, error) {
	var out []*todo.Todo
	for _, t := range r.todos {
		if t.Private {
			continue
		}
		if f.CreatedBy != nil && t.CreatedBy != *f.CreatedBy {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func addUnique(s pq.StringArray, elem string) pq.StringArray {
	for _, e := range s {
		if e == elem {
			return s
		}
	}
	return append(s, elem)
}

func removeElem(s pq.StringArray, elem string) pq.StringArray {
	out := s[:0]
	for _, e := range s {
		if e != elem {
			out = append(out, e)
		}
	}
	return out
}

// mesh is the full service mesh wired over one in-process bus.
type mesh struct {
	userRepo *memUserRepo
	teamRepo *memTeamRepo
	todoRepo *memTodoRepo

	users *rpc.UserClient
	teams *rpc.TeamClient
	todos *rpc.TodoClient
}

func newMesh() *mesh {
	log := zap.NewNop()
	b := bus.New(log, nil)
	runner := saga.NewRunner(log, nil)
	cfg := &config.BusConfig{CallTimeout: time.Second}

	m := &mesh{
		userRepo: &memUserRepo{users: make(map[string]*user.User)},
		teamRepo: &memTeamRepo{teams: make(map[string]*team.Team)},
		todoRepo: &memTodoRepo{todos: make(map[string]*todo.Todo)},
		users:    rpc.NewUserClient(b, cfg, log),
		teams:    rpc.NewTeamClient(b, cfg, log),
		todos:    rpc.NewTodoClient(b, cfg, log),
	}
	mailClient := rpc.NewMailClient(b, cfg, log)

	mailSvc := mail.NewService(mail.NewNoOpSender(log), log, nil)
	mail.NewHandler(mailSvc).RegisterHandlers(b)

	jwtMgr := user.NewJWTManager(&user.JWTConfig{
		Secret:            "mesh-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "teamtodo-test",
	})
	userSvc := user.NewService(m.userRepo, jwtMgr, mailClient, user.NewSnapshotCache(nil, nil), log, nil, "http://localhost:8080")
	user.NewHandler(userSvc).RegisterHandlers(b)

	teamSvc := team.NewService(m.teamRepo, m.users, m.todos, runner, log)
	team.NewHandler(teamSvc).RegisterHandlers(b)

	todoSvc := todo.NewService(m.todoRepo, m.users, m.teams, runner, log)
	todo.NewHandler(todoSvc).RegisterHandlers(b)

	return m
}

func (m *mesh) register(t *testing.T, username, email string) *rpc.UserSnapshot {
	t.Helper()
	resp, err := m.users.Register(context.Background(), rpc.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
	return &resp.User
}

func TestCrossServiceLifecycle(t *testing.T) {
	m := newMesh()
	ctx := context.Background()

	alice := m.register(t, "alice", "alice@example.com")
	bob := m.register(t, "bob", "bob@example.com")

	// Team creation registers the team on the creator's account.
	teamView, err := m.teams.CreateTeam(ctx, rpc.CreateTeamRequest{
		Name:      "shipping",
		CreatedBy: alice.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{teamView.ID}, []string(m.userRepo.users[alice.ID].Teams))

	// Todo creation registers both the user and team references.
	todoView, err := m.todos.CreateTodo(ctx, rpc.CreateTodoRequest{
		Title:     "cut the release",
		CreatedBy: alice.ID,
		Team:      &teamView.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{todoView.ID}, []string(m.userRepo.users[alice.ID].Todos))
	assert.Equal(t, []string{todoView.ID}, []string(m.teamRepo.teams[teamView.ID].Todos))

	// Adding a member keeps the member set and the user's team set in step.
	err = m.teams.AddMember(ctx, rpc.TeamMemberRequest{
		TeamID:          teamView.ID,
		UserID:          bob.ID,
		OperatingUserID: alice.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, []string(m.teamRepo.teams[teamView.ID].Members))
	assert.Equal(t, []string{teamView.ID}, []string(m.userRepo.users[bob.ID].Teams))

	// The new member sees the team's todo and may update it.
	listed, err := m.todos.GetTodosByTeam(ctx, rpc.GetTodosByTeamRequest{TeamID: teamView.ID})
	require.NoError(t, err)
	require.Len(t, listed.Todos, 1)

	status := "DONE"
	updated, err := m.todos.UpdateTodo(ctx, rpc.UpdateTodoRequest{
		TodoID:          todoView.ID,
		OperatingUserID: bob.ID,
		Status:          &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "DONE", updated.Status)

	// Deletion retracts every reference before the row goes.
	err = m.todos.DeleteTodo(ctx, rpc.DeleteTodoRequest{
		TodoID:          todoView.ID,
		OperatingUserID: alice.ID,
	})
	require.NoError(t, err)
	assert.Empty(t, m.todoRepo.todos)
	assert.Empty(t, m.userRepo.users[alice.ID].Todos)
	assert.Empty(t, m.teamRepo.teams[teamView.ID].Todos)
}

func TestCrossServiceCreateTodoUnwinds(t *testing.T) {
	m := newMesh()
	ctx := context.Background()

	alice := m.register(t, "alice", "alice@example.com")

	// The team reference step fails on the unknown team; the saga must
	// unwind the todo row and the user back-reference over the bus.
	missing := "no-such-team"
	_, err := m.todos.CreateTodo(ctx, rpc.CreateTodoRequest{
		Title:     "doomed",
		CreatedBy: alice.ID,
		Team:      &missing,
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, m.todoRepo.todos)
	assert.Empty(t, m.userRepo.users[alice.ID].Todos)
}
