package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-platform/internal/auth"
	"quiz-platform/internal/models"
	"quiz-platform/internal/session"
)

// SessionHandler drives a student through one quiz attempt: start, current
// question, answer submission with feedback, advancing, and abandoning.
type SessionHandler struct {
	Sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

// Start selects a quiz. If the student already completed it and the quiz is
// unchanged, the stored result is returned instead of a new session.
func (h *SessionHandler) Start(c *gin.Context) {
	var req struct {
		QuizName string `json:"quiz_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	userID := auth.UserIDFrom(c)

	view, err := h.Sessions.Start(c.Request.Context(), userID, req.QuizName)
	if err != nil {
		respondError(c, err)
		return
	}

	if view.AlreadyCompleted {
		c.JSON(http.StatusOK, gin.H{
			"already_completed": true,
			"quiz_name":         view.Prior.QuizName,
			"score":             fmt.Sprintf("%d / %d", view.Prior.Score, view.Prior.Total),
			"accuracy":          fmt.Sprintf("%.2f%%", view.Prior.Accuracy()),
			"message":           "You have already completed this quiz",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"quiz_name": req.QuizName,
		"question":  questionView(view.Session),
		"message":   "Quiz started",
	})
}

// Current returns the state of the active session: the question being
// presented, or the feedback still on screen, or the completed summary.
func (h *SessionHandler) Current(c *gin.Context) {
	sess, ok := h.Sessions.Get(auth.UserIDFrom(c))
	if !ok {
		respondError(c, session.ErrNoActiveSession)
		return
	}
	if sess.Completed() {
		c.JSON(http.StatusOK, completedView(sess))
		return
	}
	resp := gin.H{
		"quiz_name": sess.QuizName,
		"state":     sess.State,
		"question":  questionView(sess),
	}
	if sess.State == session.StateAwaitingNext && len(sess.Answers) > 0 {
		resp["feedback"] = feedbackView(sess.Answers[len(sess.Answers)-1])
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitAnswer grades the selected option and returns immediate feedback
// with the explanation.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req struct {
		SelectedOption string `json:"selected_option"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	record, err := h.Sessions.Submit(auth.UserIDFrom(c), req.SelectedOption)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedbackView(record))
}

// Advance moves to the next question, or completes the quiz and saves the
// result after the last one.
func (h *SessionHandler) Advance(c *gin.Context) {
	sess, err := h.Sessions.Advance(c.Request.Context(), auth.UserIDFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if sess.Completed() {
		c.JSON(http.StatusOK, completedView(sess))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quiz_name": sess.QuizName,
		"question":  questionView(sess),
	})
}

// Abandon discards the active session without saving anything.
func (h *SessionHandler) Abandon(c *gin.Context) {
	h.Sessions.Discard(auth.UserIDFrom(c))
	c.JSON(http.StatusOK, gin.H{"message": "Session discarded"})
}

// questionView presents the current question without its answer key.
func questionView(sess *session.Session) gin.H {
	question, ok := sess.Current()
	if !ok {
		return nil
	}
	return gin.H{
		"number":   sess.Index + 1,
		"total":    len(sess.Questions),
		"id":       question.ID,
		"question": question.Text,
		"options":  question.Options,
	}
}

// feedbackView is the post-submission view: correctness, the correct answer,
// and the explanation.
func feedbackView(record models.AnswerRecord) gin.H {
	message := "Correct!"
	if !record.IsCorrect {
		message = fmt.Sprintf("Wrong! The correct answer was: %s", record.CorrectAnswer)
	}
	return gin.H{
		"is_correct":      record.IsCorrect,
		"selected_answer": record.SelectedAnswer,
		"correct_answer":  record.CorrectAnswer,
		"explanation":     record.Explanation,
		"message":         message,
	}
}

func completedView(sess *session.Session) gin.H {
	return gin.H{
		"completed":       true,
		"saved":           sess.State == session.StateSaved,
		"quiz_name":       sess.QuizName,
		"score":           sess.Score,
		"total":           len(sess.Questions),
		"attempted_count": sess.AttemptedCount,
		"accuracy":        fmt.Sprintf("%.2f%%", sess.Accuracy()),
		"answers_log":     sess.Answers,
	}
}
