package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-platform/internal/auth"
	"quiz-platform/internal/service"
)

type AuthHandler struct {
	Users     *service.UserService
	JWTSecret string
}

func NewAuthHandler(users *service.UserService, jwtSecret string) *AuthHandler {
	return &AuthHandler{Users: users, JWTSecret: jwtSecret}
}

// Login checks credentials against the users document and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		UserID   string `json:"user_id" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	user, ok, err := h.Users.Authenticate(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID or password"})
		return
	}

	token, err := auth.GenerateToken(user, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user_id": user.ID,
		"role":    user.Role,
	})
}
