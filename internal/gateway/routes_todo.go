package gateway

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teamtodo/server/internal/rpc"
	"github.com/teamtodo/server/internal/utils/middleware"
)

type createTodoRequest struct {
	Title   string  `json:"title" binding:"required"`
	Desc    string  `json:"desc"`
	Private bool    `json:"private"`
	Team    *string `json:"team"`
}

func (h *Handler) createTodo(c *gin.Context) {
	var req createTodoRequest
	if !h.bindJSON(c, &req) {
		return
	}

	todo, err := h.todos.CreateTodo(c.Request.Context(), rpc.CreateTodoRequest{
		Title:     req.Title,
		Desc:      req.Desc,
		CreatedBy: middleware.GetUserID(c),
		Private:   req.Private,
		Team:      req.Team,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

func (h *Handler) getTodo(c *gin.Context) {
	todo, err := h.todos.GetTodoByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h *Handler) getTodosByUser(c *gin.Context) {
	perPage, page := pagination(c)
	resp, err := h.todos.GetTodosByUser(c.Request.Context(), rpc.GetTodosByUserRequest{
		UserID:  c.Param("id"),
		PerPage: perPage,
		Page:    page,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getTodosByTeam(c *gin.Context) {
	perPage, page := pagination(c)
	resp, err := h.todos.GetTodosByTeam(c.Request.Context(), rpc.GetTodosByTeamRequest{
		TeamID:  c.Param("id"),
		PerPage: perPage,
		Page:    page,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getTodosWithFilter(c *gin.Context) {
	perPage, page := pagination(c)
	req := rpc.TodoFilterRequest{PerPage: perPage, Page: page}

	if v := c.Query("status"); v != "" {
		req.Status = &v
	}
	if v := c.Query("createdBy"); v != "" {
		req.CreatedBy = &v
	}
	if v := c.Query("assignedTo"); v != "" {
		req.AssignedTo = &v
	}
	if v := c.Query("team"); v != "" {
		req.Team = &v
	}
	if v := c.Query("archived"); v != "" {
		archived := v == "true"
		req.Archived = &archived
	}

	resp, err := h.todos.GetTodosWithFilter(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type updateTodoRequest struct {
	Title      *string `json:"title"`
	Desc       *string `json:"desc"`
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
	Private    *bool   `json:"private"`
	Archived   *bool   `json:"archived"`
}

func (h *Handler) updateTodo(c *gin.Context) {
	var req updateTodoRequest
	if !h.bindJSON(c, &req) {
		return
	}

	todo, err := h.todos.UpdateTodo(c.Request.Context(), rpc.UpdateTodoRequest{
		TodoID:          c.Param("id"),
		OperatingUserID: middleware.GetUserID(c),
		Title:           req.Title,
		Desc:            req.Desc,
		Status:          req.Status,
		AssignedTo:      req.AssignedTo,
		Private:         req.Private,
		Archived:        req.Archived,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h *Handler) deleteTodo(c *gin.Context) {
	err := h.todos.DeleteTodo(c.Request.Context(), rpc.DeleteTodoRequest{
		TodoID:          c.Param("id"),
		OperatingUserID: middleware.GetUserID(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pagination(c *gin.Context) (perPage, page int) {
	perPage, _ = strconv.Atoi(c.DefaultQuery("perPage", "10"))
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	return perPage, page
}
