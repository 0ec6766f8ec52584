package rpc

import "time"

// User store wire types.

// UserSnapshot is the user view exchanged between services. Password and
// reset-token fields never cross the bus.
type UserSnapshot struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	ProfileImage string    `json:"profileImage,omitempty"`
	UserType     string    `json:"userType"`
	UserStatus   string    `json:"userStatus"`
	BanReason    string    `json:"banReason,omitempty"`
	Todos        []string  `json:"todos"`
	Teams        []string  `json:"teams"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// GetUserByIDRequest fetches one user snapshot.
type GetUserByIDRequest struct {
	UserID string `json:"userId"`
}

// UserTodoRefRequest adds or removes a todo id on a user's todo set.
type UserTodoRefRequest struct {
	UserID string `json:"userId"`
	TodoID string `json:"todoId"`
}

// UserTeamRefRequest adds or removes a team id on a user's team set.
type UserTeamRefRequest struct {
	UserID string `json:"userId"`
	TeamID string `json:"teamId"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries an issued token plus the account snapshot.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserSnapshot `json:"user"`
}

// ValidateTokenRequest verifies a JWT.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// TokenClaims is the decoded identity of a validated token.
type TokenClaims struct {
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	UserType   string `json:"userType"`
	UserStatus string `json:"userStatus"`
}

// UpdateUserRequest updates profile fields of the acting user. Nil fields
// are left untouched.
type UpdateUserRequest struct {
	UserID       string  `json:"userId"`
	Username     *string `json:"username,omitempty"`
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// ChangePasswordRequestRequest starts a password reset for an email.
type ChangePasswordRequestRequest struct {
	Email string `json:"email"`
}

// ChangePasswordRequest completes a password reset with the mailed token.
type ChangePasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// BanUserRequest bans an account. Admin only.
type BanUserRequest struct {
	UserID          string `json:"userId"`
	Reason          string `json:"reason"`
	OperatingUserID string `json:"operatingUserId"`
}

// AdminGrantRequest grants or revokes the ADMIN type. Admin only.
type AdminGrantRequest struct {
	UserID          string `json:"userId"`
	OperatingUserID string `json:"operatingUserId"`
}

// Team store wire types.

// TeamView is the team representation exchanged between services.
type TeamView struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Leader     string    `json:"leader"`
	CreatedBy  string    `json:"createdBy"`
	Moderators []string  `json:"moderators"`
	Members    []string  `json:"members"`
	Todos      []string  `json:"todos"`
	TeamStatus string    `json:"teamStatus"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateTeamRequest creates a team owned and led by CreatedBy.
type CreateTeamRequest struct {
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy"`
}

// GetTeamRequest fetches one team.
type GetTeamRequest struct {
	TeamID string `json:"teamId"`
}

// UpdateTeamRequest updates mutable team fields. Nil fields are left
// untouched; CreatedBy is immutable.
type UpdateTeamRequest struct {
	TeamID          string  `json:"teamId"`
	OperatingUserID string  `json:"operatingUserId"`
	Name            *string `json:"name,omitempty"`
	Leader          *string `json:"leader,omitempty"`
	TeamStatus      *string `json:"teamStatus,omitempty"`
}

// TeamMemberRequest adds or removes a member or moderator.
type TeamMemberRequest struct {
	TeamID          string `json:"teamId"`
	UserID          string `json:"userId"`
	OperatingUserID string `json:"operatingUserId"`
}

// TeamTodoRequest adds or removes a todo reference on a team.
type TeamTodoRequest struct {
	TeamID          string `json:"teamId"`
	TodoID          string `json:"todoId"`
	OperatingUserID string `json:"operatingUserId"`
}

// Todo store wire types.

// TodoView is the todo representation exchanged between services.
type TodoView struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Desc       string    `json:"desc"`
	CreatedBy  string    `json:"createdBy"`
	Status     string    `json:"status"`
	Assigned   bool      `json:"assigned"`
	AssignedTo *string   `json:"assignedTo,omitempty"`
	Private    bool      `json:"private"`
	Team       *string   `json:"team,omitempty"`
	Archived   bool      `json:"archived"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateTodoRequest creates a todo for CreatedBy.
type CreateTodoRequest struct {
	Title     string  `json:"title"`
	Desc      string  `json:"desc"`
	CreatedBy string  `json:"createdBy"`
	Private   bool    `json:"private"`
	Team      *string `json:"team,omitempty"`
}

// GetTodoRequest fetches one todo.
type GetTodoRequest struct {
	TodoID string `json:"todoId"`
}

// GetTodosByUserRequest lists a user's todos, paginated.
type GetTodosByUserRequest struct {
	UserID  string `json:"userId"`
	PerPage int    `json:"perPage"`
	Page    int    `json:"page"`
}

// GetTodosByTeamRequest lists a team's non-private todos, paginated.
type GetTodosByTeamRequest struct {
	TeamID  string `json:"teamId"`
	PerPage int    `json:"perPage"`
	Page    int    `json:"page"`
}

// TodoFilterRequest lists non-private todos matching the set fields.
type TodoFilterRequest struct {
	Status     *string `json:"status,omitempty"`
	CreatedBy  *string `json:"createdBy,omitempty"`
	AssignedTo *string `json:"assignedTo,omitempty"`
	Team       *string `json:"team,omitempty"`
	Archived   *bool   `json:"archived,omitempty"`
	PerPage    int     `json:"perPage"`
	Page       int     `json:"page"`
}

// TodoListResponse is a paginated todo listing.
type TodoListResponse struct {
	Todos   []TodoView `json:"todos"`
	PerPage int        `json:"perPage"`
	Page    int        `json:"page"`
}

// UpdateTodoRequest updates mutable todo fields. Nil fields are left
// untouched; CreatedBy is immutable.
type UpdateTodoRequest struct {
	TodoID          string  `json:"todoId"`
	OperatingUserID string  `json:"operatingUserId"`
	Title           *string `json:"title,omitempty"`
	Desc            *string `json:"desc,omitempty"`
	Status          *string `json:"status,omitempty"`
	AssignedTo      *string `json:"assignedTo,omitempty"`
	Private         *bool   `json:"private,omitempty"`
	Archived        *bool   `json:"archived,omitempty"`
}

// DeleteTodoRequest deletes a todo on behalf of OperatingUserID.
type DeleteTodoRequest struct {
	TodoID          string `json:"todoId"`
	OperatingUserID string `json:"operatingUserId"`
}

// Mail service wire types.

// Mail types selecting subject and template.
const (
	MailTypeForgotPassword = "FORGOT_PASSWORD"
	MailTypeConfirmation   = "CONFIRMATION"
)

// MailUser is the recipient of a mail.
type MailUser struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SendMailRequest asks the mail service to deliver one message.
type SendMailRequest struct {
	User     MailUser `json:"user"`
	Token    string   `json:"token,omitempty"`
	URL      string   `json:"url,omitempty"`
	MailType string   `json:"mailType"`
}
