package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trips-club/internal/auth"
	"trips-club/internal/services"
)

// AuthHandler exposes the identity behind a bearer token. Tokens are issued
// by the club's identity provider; this service only validates them.
type AuthHandler struct {
	users *services.UserService
	admin *services.AdminService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users *services.UserService, admin *services.AdminService) *AuthHandler {
	return &AuthHandler{
		users: users,
		admin: admin,
	}
}

// GetMe returns the current user and admin role, if any
// GET /api/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"user":     user,
		"is_admin": false,
	}
	if email, ok := auth.GetEmail(c); ok && email != user.Email {
		resp["token_email"] = email
	}

	admin, err := h.admin.GetAdminByUserID(c.Request.Context(), userID)
	switch {
	case err == nil:
		resp["is_admin"] = true
		resp["admin_role"] = admin.Role
	case !errors.Is(err, services.ErrNotFound):
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
