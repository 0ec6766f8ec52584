package gateway

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamtodo/server/internal/rpc"
	"github.com/teamtodo/server/internal/utils/middleware"
)

type createTeamRequest struct {
	Name string `json:"name" binding:"required,min=3,max=20"`
}

func (h *Handler) createTeam(c *gin.Context) {
	var req createTeamRequest
	if !h.bindJSON(c, &req) {
		return
	}

	team, err := h.teams.CreateTeam(c.Request.Context(), rpc.CreateTeamRequest{
		Name:      req.Name,
		CreatedBy: middleware.GetUserID(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, team)
}

func (h *Handler) getTeam(c *gin.Context) {
	team, err := h.teams.GetTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

type updateTeamRequest struct {
	Name       *string `json:"name"`
	Leader     *string `json:"leader"`
	TeamStatus *string `json:"teamStatus"`
}

func (h *Handler) updateTeam(c *gin.Context) {
	var req updateTeamRequest
	if !h.bindJSON(c, &req) {
		return
	}

	team, err := h.teams.UpdateTeam(c.Request.Context(), rpc.UpdateTeamRequest{
		TeamID:          c.Param("id"),
		OperatingUserID: middleware.GetUserID(c),
		Name:            req.Name,
		Leader:          req.Leader,
		TeamStatus:      req.TeamStatus,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *Handler) addMember(c *gin.Context) {
	h.memberOp(c, h.teams.AddMember)
}

func (h *Handler) removeMember(c *gin.Context) {
	h.memberOp(c, h.teams.RemoveMember)
}

func (h *Handler) addModerator(c *gin.Context) {
	h.memberOp(c, h.teams.AddModerator)
}

func (h *Handler) removeModerator(c *gin.Context) {
	h.memberOp(c, h.teams.RemoveModerator)
}

func (h *Handler) memberOp(c *gin.Context, op func(ctx context.Context, req rpc.TeamMemberRequest) error) {
	err := op(c.Request.Context(), rpc.TeamMemberRequest{
		TeamID:          c.Param("id"),
		UserID:          c.Param("userId"),
		OperatingUserID: middleware.GetUserID(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (h *Handler) addTeamTodo(c *gin.Context) {
	h.teamTodoOp(c, h.teams.AddTodo)
}

func (h *Handler) removeTeamTodo(c *gin.Context) {
	h.teamTodoOp(c, h.teams.RemoveTodo)
}

func (h *Handler) teamTodoOp(c *gin.Context, op func(ctx context.Context, req rpc.TeamTodoRequest) error) {
	err := op(c.Request.Context(), rpc.TeamTodoRequest{
		TeamID:          c.Param("id"),
		TodoID:          c.Param("todoId"),
		OperatingUserID: middleware.GetUserID(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
