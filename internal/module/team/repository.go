package team

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Set columns of the teams table.
const (
	ColumnModerators = "moderators"
	ColumnMembers    = "members"
	ColumnTodos      = "todos"
)

// Repository defines the interface for team data access.
type Repository interface {
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id string) (*Team, error)
	Update(ctx context.Context, team *Team) error
	Delete(ctx context.Context, id string) error

	// Set operations on the array columns. Atomic single-statement
	// updates, idempotent in both directions.
	AddToSet(ctx context.Context, teamID, column, elem string) error
	RemoveFromSet(ctx context.Context, teamID, column, elem string) error
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new team repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create creates a new team.
func (r *repository) Create(ctx context.Context, team *Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// GetByID retrieves a team by ID.
func (r *repository) GetByID(ctx context.Context, id string) (*Team, error) {
	var team Team
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// Update saves all fields of the team.
func (r *repository) Update(ctx context.Context, team *Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

// Delete removes the team row.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Team{}).Error
}

// AddToSet adds elem to the column unless already present.
func (r *repository) AddToSet(ctx context.Context, teamID, column, elem string) error {
	if err := validColumn(column); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Exec(
		`UPDATE teams
		 SET `+column+` = CASE WHEN ? = ANY(`+column+`) THEN `+column+` ELSE array_append(`+column+`, ?) END,
		     updated_at = NOW()
		 WHERE id = ?`,
		elem, elem, teamID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// RemoveFromSet removes elem from the column.
func (r *repository) RemoveFromSet(ctx context.Context, teamID, column, elem string) error {
	if err := validColumn(column); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Exec(
		`UPDATE teams
		 SET `+column+` = array_remove(`+column+`, ?),
		     updated_at = NOW()
		 WHERE id = ?`,
		elem, teamID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func validColumn(column string) error {
	switch column {
	case ColumnModerators, ColumnMembers, ColumnTodos:
		return nil
	}
	return errors.New("unknown set column: " + column)
}
