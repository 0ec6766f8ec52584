package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamtodo/server/internal/rpc"
)

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=2,max=64"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.users.Register(c.Request.Context(), rpc.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.users.Login(c.Request.Context(), rpc.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type changePasswordRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) changePasswordRequest(c *gin.Context) {
	var req changePasswordRequestRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.users.ChangePasswordRequest(c.Request.Context(), req.Email); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset mail sent"})
}

type changePasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), rpc.ChangePasswordRequest{
		Email:       req.Email,
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}
