package todo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/rpc"
	"github.com/teamtodo/server/internal/saga"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	todos map[string]*Todo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{todos: make(map[string]*Todo)}
}

func (r *fakeRepository) Create(ctx context.Context, t *Todo) error {
	cp := *t
	r.todos[t.ID] = &cp
	return nil
}

func (r *fakeRepository) GetByID(ctx context.Context, id string) (*Todo, error) {
	t, ok := r.todos[id]
	if !ok {
		return nil, ErrTodoNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeRepository) Update(ctx context.Context, t *Todo) error {
	if _, ok := r.todos[t.ID]; !ok {
		return ErrTodoNotFound
	}
	cp := *t
	r.todos[t.ID] = &cp
	return nil
}

func (r *fakeRepository) Delete(ctx context.Context, id string) error {
	delete(r.todos, id)
	return nil
}

func (r *fakeRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Todo, error) {
	var out []*Todo
	for _, t := range r.todos {
		if t.CreatedBy == userID {
			out = append(out, t)
		}
	}
	return window(out, limit, offset), nil
}

func (r *fakeRepository) ListByTeam(ctx context.Context, teamID string, limit, offset int) ([]*Todo, error) {
	var out []*Todo
	for _, t := range r.todos {
		if t.Team != nil && *t.Team == teamID && !t.Private {
			out = append(out, t)
		}
	}
	return window(out, limit, offset), nil
}

func (r *fakeRepository) ListWithFilter(ctx context.Context, f Filter, limit, offset int) ([]*Todo, error) {
	var out []*Todo
	for _, t := range r.todos {
		if t.Private {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.CreatedBy != nil && t.CreatedBy != *f.CreatedBy {
			continue
		}
		if f.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *f.AssignedTo) {
			continue
		}
		if f.Team != nil && (t.Team == nil || *t.Team != *f.Team) {
			continue
		}
		if f.Archived != nil && t.Archived != *f.Archived {
			continue
		}
		out = append(out, t)
	}
	return window(out, limit, offset), nil
}

func window(todos []*Todo, limit, offset int) []*Todo {
	if offset >= len(todos) {
		return nil
	}
	todos = todos[offset:]
	if limit < len(todos) {
		todos = todos[:limit]
	}
	return todos
}

// fakeUserDirectory simulates the user store behind the bus.
type fakeUserDirectory struct {
	users         map[string]*rpc.UserSnapshot
	todoRefs      map[string][]string
	addTodoErr    error
	removeTodoErr error
}

func newFakeUserDirectory(users ...*rpc.UserSnapshot) *fakeUserDirectory {
	d := &fakeUserDirectory{
		users:    make(map[string]*rpc.UserSnapshot),
		todoRefs: make(map[string][]string),
	}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *fakeUserDirectory) GetUserByID(ctx context.Context, userID string) (*rpc.UserSnapshot, error) {
	u, ok := d.users[userID]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return u, nil
}

func (d *fakeUserDirectory) AddTodo(ctx context.Context, userID, todoID string) error {
	if d.addTodoErr != nil {
		return d.addTodoErr
	}
	d.todoRefs[userID] = append(d.todoRefs[userID], todoID)
	return nil
}

func (d *fakeUserDirectory) RemoveTodo(ctx context.Context, userID, todoID string) error {
	if d.removeTodoErr != nil {
		return d.removeTodoErr
	}
	refs := d.todoRefs[userID][:0]
	for _, id := range d.todoRefs[userID] {
		if id != todoID {
			refs = append(refs, id)
		}
	}
	d.todoRefs[userID] = refs
	return nil
}

// fakeTeamDirectory simulates the team store behind the bus.
type fakeTeamDirectory struct {
	teams         map[string]*rpc.TeamView
	todoRefs      map[string][]string
	addTodoErr    error
	removeTodoErr error
}

func newFakeTeamDirectory(teams ...*rpc.TeamView) *fakeTeamDirectory {
	d := &fakeTeamDirectory{
		teams:    make(map[string]*rpc.TeamView),
		todoRefs: make(map[string][]string),
	}
	for _, t := range teams {
		d.teams[t.ID] = t
	}
	return d
}

func (d *fakeTeamDirectory) GetTeam(ctx context.Context, teamID string) (*rpc.TeamView, error) {
	t, ok := d.teams[teamID]
	if !ok {
		return nil, apperrors.NotFound("team")
	}
	return t, nil
}

func (d *fakeTeamDirectory) AddTodo(ctx context.Context, req rpc.TeamTodoRequest) error {
	if d.addTodoErr != nil {
		return d.addTodoErr
	}
	d.todoRefs[req.TeamID] = append(d.todoRefs[req.TeamID], req.TodoID)
	return nil
}

func (d *fakeTeamDirectory) RemoveTodo(ctx context.Context, req rpc.TeamTodoRequest) error {
	if d.removeTodoErr != nil {
		return d.removeTodoErr
	}
	refs := d.todoRefs[req.TeamID][:0]
	for _, id := range d.todoRefs[req.TeamID] {
		if id != req.TodoID {
			refs = append(refs, id)
		}
	}
	d.todoRefs[req.TeamID] = refs
	return nil
}

func userSnap(id, userType string) *rpc.UserSnapshot {
	return &rpc.UserSnapshot{ID: id, Username: "user-" + id, UserType: userType, UserStatus: "ACTIVE"}
}

func newTestService(repo Repository, users UserDirectory, teams TeamDirectory) *Service {
	runner := saga.NewRunner(zap.NewNop(), nil)
	return NewService(repo, users, teams, runner, zap.NewNop())
}

func seedTodo(repo *fakeRepository, id, createdBy string, team *string) *Todo {
	t := &Todo{
		ID:        id,
		Title:     "todo-" + id,
		CreatedBy: createdBy,
		Status:    StatusActive,
		Team:      team,
	}
	repo.todos[id] = t
	return t
}

func strPtr(s string) *string { return &s }

func TestCreateTodo(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"))
	teams := newFakeTeamDirectory(&rpc.TeamView{ID: "t1"})
	repo := newFakeRepository()
	svc := newTestService(repo, users, teams)

	todo, err := svc.CreateTodo(context.Background(), rpc.CreateTodoRequest{
		Title:     "  ship the release  ",
		Desc:      "cut and tag",
		CreatedBy: "creator",
		Team:      strPtr("t1"),
	})

	require.NoError(t, err)
	assert.Equal(t, "ship the release", todo.Title)
	assert.Equal(t, string(StatusActive), todo.Status)
	require.NotNil(t, todo.Team)
	assert.Equal(t, "t1", *todo.Team)

	// Row, user back-reference and team reference all exist.
	assert.Contains(t, repo.todos, todo.ID)
	assert.Equal(t, []string{todo.ID}, users.todoRefs["creator"])
	assert.Equal(t, []string{todo.ID}, teams.todoRefs["t1"])
}

func TestCreateTodo_PrivateDropsTeamLink(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"))
	teams := newFakeTeamDirectory(&rpc.TeamView{ID: "t1"})
	repo := newFakeRepository()
	svc := newTestService(repo, users, teams)

	todo, err := svc.CreateTodo(context.Background(), rpc.CreateTodoRequest{
		Title:     "secret notes",
		CreatedBy: "creator",
		Private:   true,
		Team:      strPtr("t1"),
	})

	require.NoError(t, err)
	assert.True(t, todo.Private)
	assert.Nil(t, todo.Team)
	assert.Empty(t, teams.todoRefs["t1"])
}

func TestCreateTodo_EmptyTitle(t *testing.T) {
	svc := newTestService(newFakeRepository(), newFakeUserDirectory(), newFakeTeamDirectory())

	_, err := svc.CreateTodo(context.Background(), rpc.CreateTodoRequest{
		Title:     "   ",
		CreatedBy: "creator",
	})
	assert.ErrorIs(t, err, ErrInvalidTitle)
}

func TestCreateTodo_UserBackrefFailureRemovesRow(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"))
	users.addTodoErr = apperrors.Upstream("USER_ADD_USER_TODO", errors.New("bus down"))
	repo := newFakeRepository()
	svc := newTestService(repo, users, newFakeTeamDirectory())

	_, err := svc.CreateTodo(context.Background(), rpc.CreateTodoRequest{
		Title:     "doomed",
		CreatedBy: "creator",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.Empty(t, repo.todos)
}

func TestCreateTodo_TeamRefFailureUnwindsEverything(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"))
	teams := newFakeTeamDirectory(&rpc.TeamView{ID: "t1"})
	teams.addTodoErr = apperrors.Upstream("TEAM_ADD_TODO", errors.New("bus down"))
	repo := newFakeRepository()
	svc := newTestService(repo, users, teams)

	_, err := svc.CreateTodo(context.Background(), rpc.CreateTodoRequest{
		Title:     "doomed",
		CreatedBy: "creator",
		Team:      strPtr("t1"),
	})

	require.Error(t, err)
	// Both the row and the user back-reference are unwound.
	assert.Empty(t, repo.todos)
	assert.Empty(t, users.todoRefs["creator"])
}

func TestDeleteTodo(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"))
	users.todoRefs["creator"] = []string{"todo-1"}
	teams := newFakeTeamDirectory(&rpc.TeamView{ID: "t1"})
	teams.todoRefs["t1"] = []string{"todo-1"}
	repo := newFakeRepository()
	seedTodo(repo, "todo-1", "creator", strPtr("t1"))
	svc := newTestService(repo, users, teams)

	err := svc.DeleteTodo(context.Background(), rpc.DeleteTodoRequest{
		TodoID:          "todo-1",
		OperatingUserID: "creator",
	})

	require.NoError(t, err)
	assert.Empty(t, repo.todos)
	assert.Empty(t, users.todoRefs["creator"])
	assert.Empty(t, teams.todoRefs["t1"])
}

func TestDeleteTodo_TeamRefFailureRestoresUserBackref(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"))
	users.todoRefs["creator"] = []string{"todo-1"}
	teams := newFakeTeamDirectory(&rpc.TeamView{ID: "t1"})
	teams.removeTodoErr = apperrors.Upstream("TEAM_REMOVE_TODO", errors.New("bus down"))
	repo := newFakeRepository()
	seedTodo(repo, "todo-1", "creator", strPtr("t1"))
	svc := newTestService(repo, users, teams)

	err := svc.DeleteTodo(context.Background(), rpc.DeleteTodoRequest{
		TodoID:          "todo-1",
		OperatingUserID: "creator",
	})

	require.Error(t, err)
	// The row survives and the user back-reference is restored.
	assert.Contains(t, repo.todos, "todo-1")
	assert.Equal(t, []string{"todo-1"}, users.todoRefs["creator"])
}

func TestDeleteTodo_Forbidden(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"), userSnap("stranger", "USER"))
	users.todoRefs["creator"] = []string{"todo-1"}
	repo := newFakeRepository()
	seedTodo(repo, "todo-1", "creator", nil)
	svc := newTestService(repo, users, newFakeTeamDirectory())

	err := svc.DeleteTodo(context.Background(), rpc.DeleteTodoRequest{
		TodoID:          "todo-1",
		OperatingUserID: "stranger",
	})

	assert.ErrorIs(t, err, ErrTodoForbidden)
	// Nothing changes when the permission gate denies.
	assert.Contains(t, repo.todos, "todo-1")
	assert.Equal(t, []string{"todo-1"}, users.todoRefs["creator"])
}

func TestUpdateTodo_PermissionGate(t *testing.T) {
	users := newFakeUserDirectory(
		userSnap("creator", "USER"),
		userSnap("assignee", "USER"),
		userSnap("teammate", "USER"),
		userSnap("stranger", "USER"),
		userSnap("admin", "ADMIN"),
	)
	teams := newFakeTeamDirectory(&rpc.TeamView{ID: "t1", Members: []string{"teammate"}})

	tests := []struct {
		name     string
		operator string
		wantErr  error
	}{
		{"creator allowed", "creator", nil},
		{"assignee allowed", "assignee", nil},
		{"team member allowed", "teammate", nil},
		{"stranger denied", "stranger", ErrTodoForbidden},
		{"admin allowed", "admin", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			todo := seedTodo(repo, "todo-1", "creator", strPtr("t1"))
			todo.Assigned = true
			todo.AssignedTo = strPtr("assignee")
			svc := newTestService(repo, users, teams)

			title := "renamed"
			_, err := svc.UpdateTodo(context.Background(), rpc.UpdateTodoRequest{
				TodoID:          "todo-1",
				OperatingUserID: tt.operator,
				Title:           &title,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "todo-todo-1", repo.todos["todo-1"].Title)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "renamed", repo.todos["todo-1"].Title)
		})
	}
}

func TestUpdateTodo_Assignment(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"), userSnap("assignee", "USER"))
	repo := newFakeRepository()
	seedTodo(repo, "todo-1", "creator", nil)
	svc := newTestService(repo, users, newFakeTeamDirectory())

	todo, err := svc.UpdateTodo(context.Background(), rpc.UpdateTodoRequest{
		TodoID:          "todo-1",
		OperatingUserID: "creator",
		AssignedTo:      strPtr("assignee"),
	})
	require.NoError(t, err)
	assert.True(t, todo.Assigned)
	require.NotNil(t, todo.AssignedTo)
	assert.Equal(t, "assignee", *todo.AssignedTo)

	// Assigning an unknown user fails.
	_, err = svc.UpdateTodo(context.Background(), rpc.UpdateTodoRequest{
		TodoID:          "todo-1",
		OperatingUserID: "creator",
		AssignedTo:      strPtr("nobody"),
	})
	assert.True(t, apperrors.IsNotFound(err))

	// An empty assignee unassigns.
	todo, err = svc.UpdateTodo(context.Background(), rpc.UpdateTodoRequest{
		TodoID:          "todo-1",
		OperatingUserID: "creator",
		AssignedTo:      strPtr(""),
	})
	require.NoError(t, err)
	assert.False(t, todo.Assigned)
	assert.Nil(t, todo.AssignedTo)
}

func TestUpdateTodo_PrivateDetachesTeamLink(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"))
	teams := newFakeTeamDirectory(&rpc.TeamView{ID: "t1"})
	teams.todoRefs["t1"] = []string{"todo-1"}
	repo := newFakeRepository()
	seedTodo(repo, "todo-1", "creator", strPtr("t1"))
	svc := newTestService(repo, users, teams)

	private := true
	todo, err := svc.UpdateTodo(context.Background(), rpc.UpdateTodoRequest{
		TodoID:          "todo-1",
		OperatingUserID: "creator",
		Private:         &private,
	})

	require.NoError(t, err)
	assert.True(t, todo.Private)
	// A private todo cannot keep its team link; the team's reference is
	// retracted along with it.
	assert.Nil(t, todo.Team)
	assert.Nil(t, repo.todos["todo-1"].Team)
	assert.Empty(t, teams.todoRefs["t1"])
}

func TestUpdateTodo_PrivateDetachFailureLeavesTodoUnchanged(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"))
	teams := newFakeTeamDirectory(&rpc.TeamView{ID: "t1"})
	teams.todoRefs["t1"] = []string{"todo-1"}
	teams.removeTodoErr = apperrors.Upstream("TEAM_REMOVE_TODO", errors.New("bus down"))
	repo := newFakeRepository()
	seedTodo(repo, "todo-1", "creator", strPtr("t1"))
	svc := newTestService(repo, users, teams)

	private := true
	_, err := svc.UpdateTodo(context.Background(), rpc.UpdateTodoRequest{
		TodoID:          "todo-1",
		OperatingUserID: "creator",
		Private:         &private,
	})

	require.Error(t, err)
	stored := repo.todos["todo-1"]
	assert.False(t, stored.Private)
	require.NotNil(t, stored.Team)
	assert.Equal(t, "t1", *stored.Team)
}

func TestUpdateTodo_StatusValidation(t *testing.T) {
	users := newFakeUserDirectory(userSnap("creator", "USER"))
	repo := newFakeRepository()
	seedTodo(repo, "todo-1", "creator", nil)
	svc := newTestService(repo, users, newFakeTeamDirectory())

	for _, status := range []string{"ACTIVE", "INPROGRESS", "DONE"} {
		todo, err := svc.UpdateTodo(context.Background(), rpc.UpdateTodoRequest{
			TodoID:          "todo-1",
			OperatingUserID: "creator",
			Status:          &status,
		})
		require.NoError(t, err)
		assert.Equal(t, status, todo.Status)
	}

	bad := "SHELVED"
	_, err := svc.UpdateTodo(context.Background(), rpc.UpdateTodoRequest{
		TodoID:          "todo-1",
		OperatingUserID: "creator",
		Status:          &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetTodosByTeam_ExcludesPrivate(t *testing.T) {
	repo := newFakeRepository()
	seedTodo(repo, "todo-1", "creator", strPtr("t1"))
	private := seedTodo(repo, "todo-2", "creator", strPtr("t1"))
	private.Private = true
	svc := newTestService(repo, newFakeUserDirectory(), newFakeTeamDirectory())

	resp, err := svc.GetTodosByTeam(context.Background(), rpc.GetTodosByTeamRequest{TeamID: "t1"})
	require.NoError(t, err)
	require.Len(t, resp.Todos, 1)
	assert.Equal(t, "todo-1", resp.Todos[0].ID)
}

func TestGetTodosByUser_IncludesPrivate(t *testing.T) {
	repo := newFakeRepository()
	seedTodo(repo, "todo-1", "creator", nil)
	private := seedTodo(repo, "todo-2", "creator", nil)
	private.Private = true
	svc := newTestService(repo, newFakeUserDirectory(), newFakeTeamDirectory())

	resp, err := svc.GetTodosByUser(context.Background(), rpc.GetTodosByUserRequest{UserID: "creator"})
	require.NoError(t, err)
	assert.Len(t, resp.Todos, 2)
}

func TestGetTodosWithFilter(t *testing.T) {
	repo := newFakeRepository()
	done := seedTodo(repo, "todo-1", "creator", nil)
	done.Status = StatusDone
	seedTodo(repo, "todo-2", "creator", nil)
	seedTodo(repo, "todo-3", "other", nil)
	svc := newTestService(repo, newFakeUserDirectory(), newFakeTeamDirectory())

	status := "DONE"
	resp, err := svc.GetTodosWithFilter(context.Background(), rpc.TodoFilterRequest{Status: &status})
	require.NoError(t, err)
	require.Len(t, resp.Todos, 1)
	assert.Equal(t, "todo-1", resp.Todos[0].ID)

	bad := "SHELVED"
	_, err = svc.GetTodosWithFilter(context.Background(), rpc.TodoFilterRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		perPage    int
		page       int
		wantLimit  int
		wantPage   int
		wantOffset int
	}{
		{"defaults", 0, 0, 10, 1, 0},
		{"explicit", 20, 3, 20, 3, 40},
		{"capped", 500, 1, 100, 1, 0},
		{"negative page", 10, -2, 10, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, page, offset := paginate(tt.perPage, tt.page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
