package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-platform/internal/service"
	"quiz-platform/internal/session"
	"quiz-platform/internal/store"
)

// respondError maps service and session errors onto HTTP responses. Anything
// unrecognized is treated as a storage failure and surfaced as-is.
func respondError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
	case errors.Is(err, service.ErrDuplicateName), errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "DUPLICATE_NAME"})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "NOT_FOUND"})
	case errors.Is(err, session.ErrNoQuizzesAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "NO_QUIZZES_AVAILABLE"})
	case errors.Is(err, session.ErrQuizEmpty):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "QUIZ_EMPTY"})
	case errors.Is(err, session.ErrNoActiveSession):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "NO_ACTIVE_SESSION"})
	case errors.Is(err, session.ErrNoSelection),
		errors.Is(err, session.ErrAwaitingAdvance),
		errors.Is(err, session.ErrNotAwaiting),
		errors.Is(err, session.ErrFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "INVALID_TRANSITION"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage failure", "details": err.Error(), "code": "STORAGE_FAILURE"})
	}
}
