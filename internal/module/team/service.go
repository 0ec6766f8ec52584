package team

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/policy"
	"github.com/teamtodo/server/internal/rpc"
	"github.com/teamtodo/server/internal/saga"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// UserDirectory is the slice of the user store the team store depends on.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID string) (*rpc.UserSnapshot, error)
	AddTeam(ctx context.Context, userID, teamID string) error
	RemoveTeam(ctx context.Context, userID, teamID string) error
}

// TodoDirectory is the slice of the todo store the team store depends on.
type TodoDirectory interface {
	GetTodoByID(ctx context.Context, todoID string) (*rpc.TodoView, error)
}

// Service implements the team store operations. Cross-store effects run
// as sagas so a failed remote step rolls the local write back.
type Service struct {
	repo   Repository
	users  UserDirectory
	todos  TodoDirectory
	sagas  *saga.Runner
	logger *zap.Logger
}

// NewService creates a new team service.
func NewService(repo Repository, users UserDirectory, todos TodoDirectory, sagas *saga.Runner, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		todos:  todos,
		sagas:  sagas,
		logger: logger,
	}
}

// CreateTeam creates a team led and owned by the creator, then registers
// the team id on the creator's account. A failed back-reference removes
// the team row again.
func (s *Service) CreateTeam(ctx context.Context, req rpc.CreateTeamRequest) (*rpc.TeamView, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 3 || len(name) > 20 {
		return nil, ErrInvalidName
	}

	creator, err := s.users.GetUserByID(ctx, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	t := &Team{
		ID:         uuid.New().String(),
		Name:       name,
		Leader:     creator.ID,
		CreatedBy:  creator.ID,
		Moderators: []string{},
		Members:    []string{},
		Todos:      []string{},
		TeamStatus: TeamStatusActive,
	}

	err = s.sagas.Execute(ctx, "team_create",
		saga.Step{
			Name: "create_team_row",
			Run: func(ctx context.Context) error {
				if err := s.repo.Create(ctx, t); err != nil {
					return apperrors.Internal("create team", err)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.repo.Delete(ctx, t.ID)
			},
		},
		saga.Step{
			Name: "register_user_backref",
			Run: func(ctx context.Context) error {
				return s.users.AddTeam(ctx, creator.ID, t.ID)
			},
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("team created",
		zap.String("team_id", t.ID),
		zap.String("created_by", creator.ID),
	)
	return view(t), nil
}

// GetTeam returns the team for the id.
func (s *Service) GetTeam(ctx context.Context, teamID string) (*rpc.TeamView, error) {
	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return view(t), nil
}

// UpdateTeam updates mutable fields. Members are never allowed;
// CreatedBy is immutable.
func (s *Service) UpdateTeam(ctx context.Context, req rpc.UpdateTeamRequest) (*rpc.TeamView, error) {
	t, err := s.repo.GetByID(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, t, req.OperatingUserID, false); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 3 || len(name) > 20 {
			return nil, ErrInvalidName
		}
		t.Name = name
	}
	if req.Leader != nil {
		if _, err := s.users.GetUserByID(ctx, *req.Leader); err != nil {
			return nil, err
		}
		t.Leader = *req.Leader
	}
	if req.TeamStatus != nil {
		switch TeamStatus(*req.TeamStatus) {
		case TeamStatusActive, TeamStatusPassive:
			t.TeamStatus = TeamStatus(*req.TeamStatus)
		default:
			return nil, ErrInvalidStatus
		}
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, apperrors.Internal("update team", err)
	}
	return view(t), nil
}

// AddMember adds a user to the member set and registers the team on the
// user's account. A failed back-reference reverses the set op, but only
// when the set op actually added the user: the add is an idempotent
// no-op for an existing member, and compensating a no-op would revoke a
// membership that predates this request.
func (s *Service) AddMember(ctx context.Context, req rpc.TeamMemberRequest) error {
	if _, err := s.users.GetUserByID(ctx, req.UserID); err != nil {
		return err
	}

	t, err := s.repo.GetByID(ctx, req.TeamID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, t, req.OperatingUserID, false); err != nil {
		return err
	}

	addStep := saga.Step{
		Name: "add_member",
		Run: func(ctx context.Context) error {
			return s.repo.AddToSet(ctx, t.ID, ColumnMembers, req.UserID)
		},
	}
	if !slices.Contains(t.Members, req.UserID) {
		addStep.Compensate = func(ctx context.Context) error {
			return s.repo.RemoveFromSet(ctx, t.ID, ColumnMembers, req.UserID)
		}
	}

	return s.sagas.Execute(ctx, "team_add_member",
		addStep,
		saga.Step{
			Name: "register_user_backref",
			Run: func(ctx context.Context) error {
				return s.users.AddTeam(ctx, req.UserID, t.ID)
			},
		},
	)
}

// RemoveMember removes a user from the member set and retracts the team
// from the user's account. A failed retraction re-adds the member, but
// only when the set op actually removed one: compensating the no-op
// removal of a non-member would grant a membership that never existed.
func (s *Service) RemoveMember(ctx context.Context, req rpc.TeamMemberRequest) error {
	if _, err := s.users.GetUserByID(ctx, req.UserID); err != nil {
		return err
	}

	t, err := s.repo.GetByID(ctx, req.TeamID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, t, req.OperatingUserID, false); err != nil {
		return err
	}

	removeStep := saga.Step{
		Name: "remove_member",
		Run: func(ctx context.Context) error {
			return s.repo.RemoveFromSet(ctx, t.ID, ColumnMembers, req.UserID)
		},
	}
	if slices.Contains(t.Members, req.UserID) {
		removeStep.Compensate = func(ctx context.Context) error {
			return s.repo.AddToSet(ctx, t.ID, ColumnMembers, req.UserID)
		}
	}

	return s.sagas.Execute(ctx, "team_remove_member",
		removeStep,
		saga.Step{
			Name: "remove_user_backref",
			Run: func(ctx context.Context) error {
				return s.users.RemoveTeam(ctx, req.UserID, t.ID)
			},
		},
	)
}

// AddModerator adds a user to the moderator set.
func (s *Service) AddModerator(ctx context.Context, req rpc.TeamMemberRequest) error {
	return s.mutateRoleSet(ctx, req, true)
}

// RemoveModerator removes a user from the moderator set.
func (s *Service) RemoveModerator(ctx context.Context, req rpc.TeamMemberRequest) error {
	return s.mutateRoleSet(ctx, req, false)
}

func (s *Service) mutateRoleSet(ctx context.Context, req rpc.TeamMemberRequest, add bool) error {
	if _, err := s.users.GetUserByID(ctx, req.UserID); err != nil {
		return err
	}

	t, err := s.repo.GetByID(ctx, req.TeamID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, t, req.OperatingUserID, false); err != nil {
		return err
	}

	if add {
		return s.repo.AddToSet(ctx, t.ID, ColumnModerators, req.UserID)
	}
	return s.repo.RemoveFromSet(ctx, t.ID, ColumnModerators, req.UserID)
}

// AddTodo registers a todo id on the team. Members are allowed.
func (s *Service) AddTodo(ctx context.Context, req rpc.TeamTodoRequest) error {
	return s.mutateTodoSet(ctx, req, true)
}

// RemoveTodo removes a todo id from the team. Members are allowed.
func (s *Service) RemoveTodo(ctx context.Context, req rpc.TeamTodoRequest) error {
	return s.mutateTodoSet(ctx, req, false)
}

func (s *Service) mutateTodoSet(ctx context.Context, req rpc.TeamTodoRequest, add bool) error {
	if _, err := s.todos.GetTodoByID(ctx, req.TodoID); err != nil {
		return err
	}

	t, err := s.repo.GetByID(ctx, req.TeamID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, t, req.OperatingUserID, true); err != nil {
		return err
	}

	if add {
		return s.repo.AddToSet(ctx, t.ID, ColumnTodos, req.TodoID)
	}
	return s.repo.RemoveFromSet(ctx, t.ID, ColumnTodos, req.TodoID)
}

// authorize evaluates the team rule list for the acting user. The member
// rule is toggled per operation; the admin fallback always trails.
func (s *Service) authorize(ctx context.Context, t *Team, operatingUserID string, allowMembers bool) error {
	operator, err := s.users.GetUserByID(ctx, operatingUserID)
	if err != nil {
		return err
	}

	actor := policy.Actor{ID: operator.ID, Type: policy.UserType(operator.UserType)}
	decision := policy.Evaluate(actor,
		policy.IsUser("created_by", t.CreatedBy),
		policy.IsUser("leader", t.Leader),
		policy.InSet("moderator", t.Moderators, true),
		policy.InSet("member", t.Members, allowMembers),
		policy.HasType("admin", policy.UserTypeAdmin),
	)
	if !decision.Allowed {
		s.logger.Info("team operation denied",
			zap.String("team_id", t.ID),
			zap.String("operating_user_id", operatingUserID),
		)
		return ErrTeamForbidden
	}

	s.logger.Debug("team operation allowed",
		zap.String("team_id", t.ID),
		zap.String("operating_user_id", operatingUserID),
		zap.String("rule", decision.Rule),
	)
	return nil
}

func view(t *Team) *rpc.TeamView {
	return &rpc.TeamView{
		ID:         t.ID,
		Name:       t.Name,
		Leader:     t.Leader,
		CreatedBy:  t.CreatedBy,
		Moderators: append([]string{}, t.Moderators...),
		Members:    append([]string{}, t.Members...),
		Todos:      append([]string{}, t.Todos...),
		TeamStatus: string(t.TeamStatus),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
