package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quiz-platform/internal/auth"
	"quiz-platform/internal/service"
)

// ReportHandler serves the admin performance overview, the two CSV
// downloads, and a student's own score review.
type ReportHandler struct {
	Reports  *service.ReportService
	Progress *service.ProgressService
}

func NewReportHandler(reports *service.ReportService, progress *service.ProgressService) *ReportHandler {
	return &ReportHandler{Reports: reports, Progress: progress}
}

// Performance returns both classification tables. Admin only.
func (h *ReportHandler) Performance(c *gin.Context) {
	attempted, notAttempted, err := h.Reports.ClassifyStudents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"attempted":     attempted,
		"not_attempted": notAttempted,
	})
}

// AttemptedCSV downloads the attempted-students table.
func (h *ReportHandler) AttemptedCSV(c *gin.Context) {
	data, err := h.Reports.AttemptedCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attempted_students_performance.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// NotAttemptedCSV downloads the not-attempted-students table.
func (h *ReportHandler) NotAttemptedCSV(c *gin.Context) {
	data, err := h.Reports.NotAttemptedCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="not_attempted_students.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// MyScores returns the authenticated student's completed quizzes with the
// detailed answer logs for review.
func (h *ReportHandler) MyScores(c *gin.Context) {
	userID := auth.UserIDFrom(c)
	summary, err := h.Reports.SummaryForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	entries, err := h.Progress.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	details := gin.H{}
	for name, entry := range entries {
		if entry.Attempted {
			details[name] = entry.AnswersLog
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"details": details,
	})
}
