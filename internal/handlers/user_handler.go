package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-platform/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// CreateStudent registers a new student account. Admin only.
func (h *UserHandler) CreateStudent(c *gin.Context) {
	var req struct {
		UserID   string `json:"user_id" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if err := h.Users.CreateStudent(c.Request.Context(), req.UserID, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": req.UserID, "message": "Student account created"})
}

// ListUsers returns ids and roles of all accounts. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{"user_id": u.ID, "role": u.Role})
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "count": len(out)})
}
