package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-platform/internal/service"
)

// QuizHandler exposes catalog management to admins and quiz listing to
// students.
type QuizHandler struct {
	Catalog *service.CatalogService
}

func NewQuizHandler(catalog *service.CatalogService) *QuizHandler {
	return &QuizHandler{Catalog: catalog}
}

// ListQuizzes returns the full catalog, including answer keys. Admin only.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.Catalog.ListQuizzes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// ListQuizNames returns just the selectable quiz names for students.
func (h *QuizHandler) ListQuizNames(c *gin.Context) {
	quizzes, err := h.Catalog.ListQuizzes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	names := make([]string, 0, len(quizzes))
	for _, quiz := range quizzes {
		names = append(names, quiz.Name)
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": names})
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if err := h.Catalog.CreateQuiz(c.Request.Context(), req.Name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name, "message": "Quiz created"})
}

func (h *QuizHandler) AddQuestion(c *gin.Context) {
	quizName := c.Param("name")
	var in service.QuestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	question, err := h.Catalog.AddQuestion(c.Request.Context(), quizName, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuizHandler) UpdateQuestion(c *gin.Context) {
	quizName := c.Param("name")
	questionID := c.Param("questionID")
	var in service.QuestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	question, err := h.Catalog.UpdateQuestion(c.Request.Context(), quizName, questionID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	quizName := c.Param("name")
	questionID := c.Param("questionID")
	if err := h.Catalog.DeleteQuestion(c.Request.Context(), quizName, questionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// DeleteQuiz removes the quiz and every progress entry recorded against it.
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizName := c.Param("name")
	if err := h.Catalog.DeleteQuiz(c.Request.Context(), quizName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}
