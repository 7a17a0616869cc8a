package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rugfork/internal/models"
	"rugfork/internal/services"
)

// UserHandler handles user-related endpoints
type UserHandler struct {
	userService *services.UserService
	admins      services.AdminChecker
}

func NewUserHandler(userService *services.UserService, admins services.AdminChecker) *UserHandler {
	return &UserHandler{userService: userService, admins: admins}
}

// GetProfile returns the current user's profile
// GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	profile, err := h.userService.GetProfile(c.Request.Context(), a.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"user": profile}
	if h.admins != nil && h.admins.IsAdmin(a.Wallet) {
		resp["role"] = "admin"
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile changes username, email or avatar
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.userService.UpdateProfile(c.Request.Context(), a.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// GetStats returns the current user's betting record
// GET /api/users/stats
func (h *UserHandler) GetStats(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	stats, err := h.userService.GetStats(c.Request.Context(), a.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}
