// Package gateway is the only HTTP surface. It translates REST calls
// into typed client calls against the service bus.
package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teamtodo/server/internal/rpc"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
	"github.com/teamtodo/server/internal/utils/middleware"
)

// Handler holds the typed service clients behind the REST routes.
type Handler struct {
	users  *rpc.UserClient
	teams  *rpc.TeamClient
	todos  *rpc.TodoClient
	logger *zap.Logger
}

// NewHandler creates a gateway handler.
func NewHandler(users *rpc.UserClient, teams *rpc.TeamClient, todos *rpc.TodoClient, logger *zap.Logger) *Handler {
	return &Handler{
		users:  users,
		teams:  teams,
		todos:  todos,
		logger: logger,
	}
}

// RegisterRoutes registers public routes (no auth).
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/change-password-request", h.changePasswordRequest)
		auth.POST("/change-password", h.changePassword)
	}
}

// RegisterProtectedRoutes registers routes that require a valid token.
// Mutating routes additionally reject banned accounts.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	active := middleware.ActiveStatus()

	users := r.Group("/users")
	{
		users.GET("/:id", h.getUser)
		users.GET("/:id/todos", h.getTodosByUser)
		users.PATCH("/me", active, h.updateProfile)
		users.POST("/:id/ban", active, h.banUser)
		users.POST("/:id/grant-admin", active, h.grantAdmin)
		users.POST("/:id/take-admin", active, h.takeAdmin)
	}

	teams := r.Group("/teams")
	{
		teams.POST("", active, h.createTeam)
		teams.GET("/:id", h.getTeam)
		teams.GET("/:id/todos", h.getTodosByTeam)
		teams.PATCH("/:id", active, h.updateTeam)
		teams.POST("/:id/members/:userId", active, h.addMember)
		teams.DELETE("/:id/members/:userId", active, h.removeMember)
		teams.POST("/:id/moderators/:userId", active, h.addModerator)
		teams.DELETE("/:id/moderators/:userId", active, h.removeModerator)
		teams.POST("/:id/todos/:todoId", active, h.addTeamTodo)
		teams.DELETE("/:id/todos/:todoId", active, h.removeTeamTodo)
	}

	todos := r.Group("/todos")
	{
		todos.POST("", active, h.createTodo)
		todos.GET("", h.getTodosWithFilter)
		todos.GET("/:id", h.getTodo)
		todos.PATCH("/:id", active, h.updateTodo)
		todos.DELETE("/:id", active, h.deleteTodo)
	}
}

// handleError maps a service error to its HTTP response.
func (h *Handler) handleError(c *gin.Context, err error) {
	status := apperrors.GetStatusCode(err)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if status >= http.StatusInternalServerError {
			h.logger.Error("request failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
		c.JSON(status, appErr.ToResponse())
		return
	}

	h.logger.Error("request failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "internal server error",
		},
	})
}

func (h *Handler) bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "BAD_REQUEST",
				"message": err.Error(),
			},
		})
		return false
	}
	return true
}
