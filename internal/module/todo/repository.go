package todo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Filter narrows ListWithFilter. Nil fields are not applied; private
// todos are always excluded.
type Filter struct {
	Status     *Status
	CreatedBy  *string
	AssignedTo *string
	Team       *string
	Archived   *bool
}

// Repository defines the interface for todo data access.
type Repository interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, id string) (*Todo, error)
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, id string) error

	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Todo, error)
	ListByTeam(ctx context.Context, teamID string, limit, offset int) ([]*Todo, error)
	ListWithFilter(ctx context.Context, f Filter, limit, offset int) ([]*Todo, error)
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new todo repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create creates a new todo.
func (r *repository) Create(ctx context.Context, todo *Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// GetByID retrieves a todo by ID.
func (r *repository) GetByID(ctx context.Context, id string) (*Todo, error) {
	var todo Todo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// Update saves all fields of the todo.
func (r *repository) Update(ctx context.Context, todo *Todo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

// Delete removes the todo row.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Todo{}).Error
}

// ListByUser lists the user's own todos, private included.
func (r *repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Todo, error) {
	var todos []*Todo
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&todos).Error
	return todos, err
}

// ListByTeam lists a team's todos. Private todos never appear in team
// listings.
func (r *repository) ListByTeam(ctx context.Context, teamID string, limit, offset int) ([]*Todo, error) {
	var todos []*Todo
	err := r.db.WithContext(ctx).
		Where("team = ? AND private = ?", teamID, false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&todos).Error
	return todos, err
}

// ListWithFilter lists non-private todos matching the filter.
func (r *repository) ListWithFilter(ctx context.Context, f Filter, limit, offset int) ([]*Todo, error) {
	q := r.db.WithContext(ctx).Where("private = ?", false)

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.CreatedBy != nil {
		q = q.Where("created_by = ?", *f.CreatedBy)
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	if f.Team != nil {
		q = q.Where("team = ?", *f.Team)
	}
	if f.Archived != nil {
		q = q.Where("archived = ?", *f.Archived)
	}

	var todos []*Todo
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&todos).Error
	return todos, err
}
