package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"

	"quiz-platform/internal/models"
	"quiz-platform/internal/store"
)

// AttemptedRow is one student×quiz performance line.
type AttemptedRow struct {
	StudentID string `json:"student_id"`
	QuizName  string `json:"quiz_name"`
	Score     string `json:"score"`
	Accuracy  string `json:"accuracy"`
}

// NotAttemptedRow lists a student with no completed quiz at all.
type NotAttemptedRow struct {
	StudentID string `json:"student_id"`
}

// ScoreSummary is a student's own view of one completed quiz.
type ScoreSummary struct {
	QuizName string `json:"quiz_name"`
	Score    string `json:"score"`
	Accuracy string `json:"accuracy"`
}

// ReportService aggregates the progress ledger for performance review.
// All reads are over in-memory snapshots; nothing here mutates state.
type ReportService struct {
	Store store.Store
}

func NewReportService(st store.Store) *ReportService {
	return &ReportService{Store: st}
}

// ClassifyStudents partitions student accounts into those with at least one
// attempted progress entry and those with none. For every attempted
// student×quiz pair one row is emitted; rows are sorted by student then quiz.
func (s *ReportService) ClassifyStudents(ctx context.Context) ([]AttemptedRow, []NotAttemptedRow, error) {
	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		return nil, nil, err
	}
	progress, err := s.Store.ListAllProgress(ctx)
	if err != nil {
		return nil, nil, err
	}

	var attempted []AttemptedRow
	var notAttempted []NotAttemptedRow
	for _, user := range users {
		if user.Role != models.RoleStudent {
			continue
		}
		quizzes := progress[user.ID]
		names := make([]string, 0, len(quizzes))
		for name, entry := range quizzes {
			if entry.Attempted {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			notAttempted = append(notAttempted, NotAttemptedRow{StudentID: user.ID})
			continue
		}
		sort.Strings(names)
		for _, name := range names {
			entry := quizzes[name]
			attempted = append(attempted, AttemptedRow{
				StudentID: user.ID,
				QuizName:  name,
				Score:     formatScore(entry.Score, entry.Total),
				Accuracy:  formatAccuracy(entry.Accuracy()),
			})
		}
	}
	return attempted, notAttempted, nil
}

// SummaryForUser lists a student's own completed quizzes, sorted by name.
func (s *ReportService) SummaryForUser(ctx context.Context, userID string) ([]ScoreSummary, error) {
	progress, err := s.Store.ListProgressForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(progress))
	for name, entry := range progress {
		if entry.Attempted {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	summaries := make([]ScoreSummary, 0, len(names))
	for _, name := range names {
		entry := progress[name]
		summaries = append(summaries, ScoreSummary{
			QuizName: name,
			Score:    formatScore(entry.Score, entry.Total),
			Accuracy: formatAccuracy(entry.Accuracy()),
		})
	}
	return summaries, nil
}

// AttemptedCSV renders the attempted-students table as a CSV download.
func (s *ReportService) AttemptedCSV(ctx context.Context) ([]byte, error) {
	rows, _, err := s.ClassifyStudents(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Student ID", "Quiz Name", "Score", "Accuracy"})
	for _, row := range rows {
		_ = w.Write([]string{row.StudentID, row.QuizName, row.Score, row.Accuracy})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NotAttemptedCSV renders the not-attempted-students table as a CSV download.
func (s *ReportService) NotAttemptedCSV(ctx context.Context) ([]byte, error) {
	_, rows, err := s.ClassifyStudents(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Student ID"})
	for _, row := range rows {
		_ = w.Write([]string{row.StudentID})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatScore(score, total int) string {
	return fmt.Sprintf("%d / %d", score, total)
}

func formatAccuracy(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}
