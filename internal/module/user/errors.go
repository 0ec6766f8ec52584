package user

import (
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// Module errors.
var (
	ErrUserNotFound       = apperrors.NotFound("user")
	ErrEmailTaken         = apperrors.Conflict("email already registered")
	ErrInvalidCredentials = apperrors.Unauthorized("invalid email or password")
	ErrInvalidResetToken  = apperrors.BadRequest("invalid or expired reset token")
	ErrNotAdmin           = apperrors.Forbidden("admin privileges required")
)
