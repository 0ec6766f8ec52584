package todo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/policy"
	"github.com/teamtodo/server/internal/rpc"
	"github.com/teamtodo/server/internal/saga"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// UserDirectory is the slice of the user store the todo store depends on.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID string) (*rpc.UserSnapshot, error)
	AddTodo(ctx context.Context, userID, todoID string) error
	RemoveTodo(ctx context.Context, userID, todoID string) error
}

// TeamDirectory is the slice of the team store the todo store depends on.
type TeamDirectory interface {
	GetTeam(ctx context.Context, teamID string) (*rpc.TeamView, error)
	AddTodo(ctx context.Context, req rpc.TeamTodoRequest) error
	RemoveTodo(ctx context.Context, req rpc.TeamTodoRequest) error
}

// Service implements the todo store operations. Creation and deletion
// run as sagas over the user and team stores.
type Service struct {
	repo   Repository
	users  UserDirectory
	teams  TeamDirectory
	sagas  *saga.Runner
	logger *zap.Logger
}

// NewService creates a new todo service.
func NewService(repo Repository, users UserDirectory, teams TeamDirectory, sagas *saga.Runner, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		teams:  teams,
		sagas:  sagas,
		logger: logger,
	}
}

// CreateTodo creates a todo, registers it on the creator's account and,
// when team-linked, on the team. Any failed registration unwinds every
// earlier write so no partial creation survives.
//
// A private todo cannot belong to a team: the team link is dropped
// silently before anything is stored.
func (s *Service) CreateTodo(ctx context.Context, req rpc.CreateTodoRequest) (*rpc.TodoView, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidTitle
	}

	team := req.Team
	if req.Private {
		team = nil
	}

	creator, err := s.users.GetUserByID(ctx, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	t := &Todo{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(req.Title),
		Desc:      req.Desc,
		CreatedBy: creator.ID,
		Status:    StatusActive,
		Private:   req.Private,
		Team:      team,
	}

	steps := []saga.Step{
		{
			Name: "create_todo_row",
			Run: func(ctx context.Context) error {
				if err := s.repo.Create(ctx, t); err != nil {
					return apperrors.Internal("create todo", err)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.repo.Delete(ctx, t.ID)
			},
		},
		{
			Name: "register_user_backref",
			Run: func(ctx context.Context) error {
				return s.users.AddTodo(ctx, creator.ID, t.ID)
			},
			Compensate: func(ctx context.Context) error {
				return s.users.RemoveTodo(ctx, creator.ID, t.ID)
			},
		},
	}
	if team != nil {
		steps = append(steps, saga.Step{
			Name: "register_team_ref",
			Run: func(ctx context.Context) error {
				return s.teams.AddTodo(ctx, rpc.TeamTodoRequest{
					TeamID:          *team,
					TodoID:          t.ID,
					OperatingUserID: creator.ID,
				})
			},
		})
	}

	if err := s.sagas.Execute(ctx, "todo_create", steps...); err != nil {
		return nil, err
	}

	s.logger.Info("todo created",
		zap.String("todo_id", t.ID),
		zap.String("created_by", creator.ID),
	)
	return view(t), nil
}

// GetTodoByID returns the todo for the id.
func (s *Service) GetTodoByID(ctx context.Context, todoID string) (*rpc.TodoView, error) {
	t, err := s.repo.GetByID(ctx, todoID)
	if err != nil {
		return nil, err
	}
	return view(t), nil
}

// GetTodosByUser lists the user's own todos.
func (s *Service) GetTodosByUser(ctx context.Context, req rpc.GetTodosByUserRequest) (*rpc.TodoListResponse, error) {
	perPage, page, offset := paginate(req.PerPage, req.Page)
	todos, err := s.repo.ListByUser(ctx, req.UserID, perPage, offset)
	if err != nil {
		return nil, apperrors.Internal("list todos", err)
	}
	return listResponse(todos, perPage, page), nil
}

// GetTodosByTeam lists a team's non-private todos.
func (s *Service) GetTodosByTeam(ctx context.Context, req rpc.GetTodosByTeamRequest) (*rpc.TodoListResponse, error) {
	perPage, page, offset := paginate(req.PerPage, req.Page)
	todos, err := s.repo.ListByTeam(ctx, req.TeamID, perPage, offset)
	if err != nil {
		return nil, apperrors.Internal("list todos", err)
	}
	return listResponse(todos, perPage, page), nil
}

// GetTodosWithFilter lists non-private todos matching the filter.
func (s *Service) GetTodosWithFilter(ctx context.Context, req rpc.TodoFilterRequest) (*rpc.TodoListResponse, error) {
	f := Filter{
		CreatedBy:  req.CreatedBy,
		AssignedTo: req.AssignedTo,
		Team:       req.Team,
		Archived:   req.Archived,
	}
	if req.Status != nil {
		status := Status(*req.Status)
		switch status {
		case StatusActive, StatusInProgress, StatusDone:
			f.Status = &status
		default:
			return nil, ErrInvalidStatus
		}
	}

	perPage, page, offset := paginate(req.PerPage, req.Page)
	todos, err := s.repo.ListWithFilter(ctx, f, perPage, offset)
	if err != nil {
		return nil, apperrors.Internal("list todos", err)
	}
	return listResponse(todos, perPage, page), nil
}

// UpdateTodo updates mutable fields after the permission gate. A todo
// turning private sheds its team link the same way creation does: the
// reference is retracted from the team before the row is stored.
func (s *Service) UpdateTodo(ctx context.Context, req rpc.UpdateTodoRequest) (*rpc.TodoView, error) {
	t, err := s.repo.GetByID(ctx, req.TodoID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, t, req.OperatingUserID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrInvalidTitle
		}
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Desc != nil {
		t.Desc = *req.Desc
	}
	if req.Status != nil {
		status := Status(*req.Status)
		switch status {
		case StatusActive, StatusInProgress, StatusDone:
			t.Status = status
		default:
			return nil, ErrInvalidStatus
		}
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			t.Assigned = false
			t.AssignedTo = nil
		} else {
			if _, err := s.users.GetUserByID(ctx, *req.AssignedTo); err != nil {
				return nil, err
			}
			t.Assigned = true
			t.AssignedTo = req.AssignedTo
		}
	}
	if req.Private != nil {
		t.Private = *req.Private
	}
	if req.Archived != nil {
		t.Archived = *req.Archived
	}

	var detachTeam *string
	if t.Private && t.Team != nil {
		detachTeam = t.Team
		t.Team = nil
	}

	if detachTeam == nil {
		if err := s.repo.Update(ctx, t); err != nil {
			return nil, apperrors.Internal("update todo", err)
		}
		return view(t), nil
	}

	teamID := *detachTeam
	err = s.sagas.Execute(ctx, "todo_update",
		saga.Step{
			Name: "remove_team_ref",
			Run: func(ctx context.Context) error {
				return s.teams.RemoveTodo(ctx, rpc.TeamTodoRequest{
					TeamID:          teamID,
					TodoID:          t.ID,
					OperatingUserID: req.OperatingUserID,
				})
			},
			Compensate: func(ctx context.Context) error {
				return s.teams.AddTodo(ctx, rpc.TeamTodoRequest{
					TeamID:          teamID,
					TodoID:          t.ID,
					OperatingUserID: req.OperatingUserID,
				})
			},
		},
		saga.Step{
			Name: "update_todo_row",
			Run: func(ctx context.Context) error {
				if err := s.repo.Update(ctx, t); err != nil {
					return apperrors.Internal("update todo", err)
				}
				return nil
			},
		},
	)
	if err != nil {
		return nil, err
	}
	return view(t), nil
}

// DeleteTodo removes the todo and retracts its references from the user
// and team stores. A failure during retraction re-adds what was already
// removed; nothing changes when the permission gate denies.
func (s *Service) DeleteTodo(ctx context.Context, req rpc.DeleteTodoRequest) error {
	t, err := s.repo.GetByID(ctx, req.TodoID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, t, req.OperatingUserID); err != nil {
		return err
	}

	steps := []saga.Step{
		{
			Name: "remove_user_backref",
			Run: func(ctx context.Context) error {
				return s.users.RemoveTodo(ctx, t.CreatedBy, t.ID)
			},
			Compensate: func(ctx context.Context) error {
				return s.users.AddTodo(ctx, t.CreatedBy, t.ID)
			},
		},
	}
	if t.Team != nil {
		teamID := *t.Team
		steps = append(steps, saga.Step{
			Name: "remove_team_ref",
			Run: func(ctx context.Context) error {
				return s.teams.RemoveTodo(ctx, rpc.TeamTodoRequest{
					TeamID:          teamID,
					TodoID:          t.ID,
					OperatingUserID: req.OperatingUserID,
				})
			},
			Compensate: func(ctx context.Context) error {
				return s.teams.AddTodo(ctx, rpc.TeamTodoRequest{
					TeamID:          teamID,
					TodoID:          t.ID,
					OperatingUserID: req.OperatingUserID,
				})
			},
		})
	}
	steps = append(steps, saga.Step{
		Name: "delete_todo_row",
		Run: func(ctx context.Context) error {
			if err := s.repo.Delete(ctx, t.ID); err != nil {
				return apperrors.Internal("delete todo", err)
			}
			return nil
		},
	})

	if err := s.sagas.Execute(ctx, "todo_delete", steps...); err != nil {
		return err
	}

	s.logger.Info("todo deleted",
		zap.String("todo_id", t.ID),
		zap.String("operating_user_id", req.OperatingUserID),
	)
	return nil
}

// authorize evaluates the todo rule list for the acting user: creator,
// assignee, member of the linked team, then the admin fallback.
func (s *Service) authorize(ctx context.Context, t *Todo, operatingUserID string) error {
	operator, err := s.users.GetUserByID(ctx, operatingUserID)
	if err != nil {
		return err
	}

	var teamMembers []string
	if t.Team != nil {
		team, err := s.teams.GetTeam(ctx, *t.Team)
		if err == nil {
			teamMembers = team.Members
		} else if !apperrors.IsNotFound(err) {
			return err
		}
	}

	assignedTo := ""
	if t.AssignedTo != nil {
		assignedTo = *t.AssignedTo
	}

	actor := policy.Actor{ID: operator.ID, Type: policy.UserType(operator.UserType)}
	decision := policy.Evaluate(actor,
		policy.IsUser("created_by", t.CreatedBy),
		policy.IsUser("assigned_to", assignedTo),
		policy.InSet("team_member", teamMembers, true),
		policy.HasType("admin", policy.UserTypeAdmin),
	)
	if !decision.Allowed {
		s.logger.Info("todo operation denied",
			zap.String("todo_id", t.ID),
			zap.String("operating_user_id", operatingUserID),
		)
		return ErrTodoForbidden
	}

	s.logger.Debug("todo operation allowed",
		zap.String("todo_id", t.ID),
		zap.String("operating_user_id", operatingUserID),
		zap.String("rule", decision.Rule),
	)
	return nil
}

func paginate(perPage, page int) (limit, pageOut, offset int) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	if page <= 0 {
		page = 1
	}
	return perPage, page, (page - 1) * perPage
}

func listResponse(todos []*Todo, perPage, page int) *rpc.TodoListResponse {
	out := make([]rpc.TodoView, 0, len(todos))
	for _, t := range todos {
		out = append(out, *view(t))
	}
	return &rpc.TodoListResponse{Todos: out, PerPage: perPage, Page: page}
}

func view(t *Todo) *rpc.TodoView {
	return &rpc.TodoView{
		ID:         t.ID,
		Title:      t.Title,
		Desc:       t.Desc,
		CreatedBy:  t.CreatedBy,
		Status:     string(t.Status),
		Assigned:   t.Assigned,
		AssignedTo: t.AssignedTo,
		Private:    t.Private,
		Team:       t.Team,
		Archived:   t.Archived,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
