package team

import (
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// Module errors.
var (
	ErrTeamNotFound  = apperrors.NotFound("team")
	ErrTeamForbidden = apperrors.Forbidden("not permitted on this team")
	ErrInvalidName   = apperrors.ValidationError("team name must be 3-20 characters")
	ErrInvalidStatus = apperrors.ValidationError("team status must be ACTIVE or PASSIVE")
)
