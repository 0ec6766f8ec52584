package rpc

// Message patterns served by the user store.
const (
	UserGetUserByID           = "USER_GET_USER_BY_ID"
	UserAddUserTodo           = "USER_ADD_USER_TODO"
	UserRemoveUserTodo        = "USER_REMOVE_USER_TODO"
	UserAddUserTeam           = "USER_ADD_USER_TEAM"
	UserRemoveUserTeam        = "USER_REMOVE_USER_TEAM"
	UserRegister              = "USER_REGISTER"
	UserLogin                 = "USER_LOGIN"
	UserValidateToken         = "USER_VALIDATE_TOKEN"
	UserUpdate                = "USER_UPDATE"
	UserChangePasswordRequest = "USER_CHANGE_PASSWORD_REQUEST"
	UserChangePassword        = "USER_CHANGE_PASSWORD"
	UserBanUser               = "USER_BAN_USER"
	UserGrantAdmin            = "USER_GRANT_ADMIN"
	UserTakeAdmin             = "USER_TAKE_ADMIN"
)

// Message patterns served by the team store.
const (
	TeamCreateTeam      = "TEAM_CREATE_TEAM"
	TeamGetTeam         = "TEAM_GET_TEAM"
	TeamUpdateTeam      = "TEAM_UPDATE_TEAM"
	TeamAddMember       = "TEAM_ADD_MEMBER"
	TeamRemoveMember    = "TEAM_REMOVE_MEMBER"
	TeamAddModerator    = "TEAM_ADD_MODERATOR"
	TeamRemoveModerator = "TEAM_REMOVE_MODERATOR"
	TeamAddTodo         = "TEAM_ADD_TODO"
	TeamRemoveTodo      = "TEAM_REMOVE_TODO"
)

// Message patterns served by the todo store.
const (
	TodoCreateTodo         = "TODO_CREATE_TODO"
	TodoGetTodoWithID      = "TODO_GET_TODO_WITH_ID"
	TodoGetTodosByUser     = "TODO_GET_TODOS_BY_USER"
	TodoGetTodosByTeam     = "TODO_GET_TODOS_BY_TEAM"
	TodoGetTodosWithFilter = "TODO_GET_TODOS_WITH_FILTER"
	TodoUpdateTodo         = "TODO_UPDATE_TODO"
	TodoDeleteTodo         = "TODO_DELETE_TODO"
)

// Message patterns served by the mail service.
const (
	MailSend = "MAIL_SEND"
)
