package todo

import (
	apperrors "github.com/teamtodo/server/internal/utils/errors"
)

// Module errors.
var (
	ErrTodoNotFound  = apperrors.NotFound("todo")
	ErrTodoForbidden = apperrors.Forbidden("not permitted on this todo")
	ErrInvalidTitle  = apperrors.ValidationError("todo title is required")
	ErrInvalidStatus = apperrors.ValidationError("todo status must be ACTIVE, INPROGRESS or DONE")
)
