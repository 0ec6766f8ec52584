package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamtodo/server/internal/rpc"
	"github.com/teamtodo/server/internal/utils/middleware"
)

func (h *Handler) getUser(c *gin.Context) {
	snap, err := h.users.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type updateProfileRequest struct {
	Username     *string `json:"username"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	ProfileImage *string `json:"profileImage"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	snap, err := h.users.Update(c.Request.Context(), rpc.UpdateUserRequest{
		UserID:       middleware.GetUserID(c),
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type banUserRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) banUser(c *gin.Context) {
	var req banUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	snap, err := h.users.BanUser(c.Request.Context(), rpc.BanUserRequest{
		UserID:          c.Param("id"),
		Reason:          req.Reason,
		OperatingUserID: middleware.GetUserID(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) grantAdmin(c *gin.Context) {
	snap, err := h.users.GrantAdmin(c.Request.Context(), rpc.AdminGrantRequest{
		UserID:          c.Param("id"),
		OperatingUserID: middleware.GetUserID(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) takeAdmin(c *gin.Context) {
	snap, err := h.users.TakeAdmin(c.Request.Context(), rpc.AdminGrantRequest{
		UserID:          c.Param("id"),
		OperatingUserID: middleware.GetUserID(c),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}
