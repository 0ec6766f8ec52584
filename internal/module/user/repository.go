package user

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository defines the interface for user data access.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error

	// Set operations on the todo/team reference columns. All are atomic
	// single-statement updates and idempotent: adding a present id or
	// removing an absent one succeeds without change.
	AddTodoRef(ctx context.Context, userID, todoID string) error
	RemoveTodoRef(ctx context.Context, userID, todoID string) error
	AddTeamRef(ctx context.Context, userID, teamID string) error
	RemoveTeamRef(ctx context.Context, userID, teamID string) error
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create creates a new user.
func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID retrieves a user by ID.
func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update saves all fields of the user.
func (r *repository) Update(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// AddTodoRef adds a todo id to the user's todo set.
func (r *repository) AddTodoRef(ctx context.Context, userID, todoID string) error {
	return r.appendUnique(ctx, "todos", userID, todoID)
}

// RemoveTodoRef removes a todo id from the user's todo set.
func (r *repository) RemoveTodoRef(ctx context.Context, userID, todoID string) error {
	return r.removeElem(ctx, "todos", userID, todoID)
}

// AddTeamRef adds a team id to the user's team set.
func (r *repository) AddTeamRef(ctx context.Context, userID, teamID string) error {
	return r.appendUnique(ctx, "teams", userID, teamID)
}

// RemoveTeamRef removes a team id from the user's team set.
func (r *repository) RemoveTeamRef(ctx context.Context, userID, teamID string) error {
	return r.removeElem(ctx, "teams", userID, teamID)
}

// appendUnique appends elem to the array column unless already present.
// One statement, so concurrent adds cannot duplicate the element.
func (r *repository) appendUnique(ctx context.Context, column, userID, elem string) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE users
		 SET `+column+` = CASE WHEN ? = ANY(`+column+`) THEN `+column+` ELSE array_append(`+column+`, ?) END,
		     updated_at = NOW()
		 WHERE id = ?`,
		elem, elem, userID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// removeElem removes elem from the array column.
func (r *repository) removeElem(ctx context.Context, column, userID, elem string) error {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE users
		 SET `+column+` = array_remove(`+column+`, ?),
		     updated_at = NOW()
		 WHERE id = ?`,
		elem, userID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
