package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rugfork/internal/auth"
	"rugfork/internal/models"
	"rugfork/internal/services"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// WalletLogin authenticates a Solana wallet that signed services.LoginMessage.
// POST /auth/wallet
func (h *AuthHandler) WalletLogin(c *gin.Context) {
	var req models.WalletLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := services.VerifyWalletSignature(req.WalletAddress, req.Signature, services.LoginMessage); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.authService.ProcessWalletLogin(c.Request.Context(), req.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout handles user logout (stateless JWT, client-side only)
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
	})
}

// GetMe returns the currently authenticated user
// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	user, err := h.authService.GetUserByID(c.Request.Context(), a.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
