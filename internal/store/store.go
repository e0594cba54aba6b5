package store

import (
	"context"
	"errors"

	"quiz-platform/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Store is the persistence contract for the three collections: the quiz
// catalog, user accounts, and per-user progress. Writes are whole-record and
// synchronous; a failed write must leave the previously persisted state
// unchanged.
type Store interface {
	// Catalog
	ListQuizzes(ctx context.Context) ([]models.Quiz, error)
	GetQuiz(ctx context.Context, name string) (models.Quiz, error)
	PutQuiz(ctx context.Context, quiz models.Quiz) error
	DeleteQuiz(ctx context.Context, name string) error

	// Users
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) error

	// Progress
	GetProgress(ctx context.Context, userID, quizName string) (models.ProgressEntry, error)
	ListProgressForUser(ctx context.Context, userID string) (map[string]models.ProgressEntry, error)
	ListAllProgress(ctx context.Context) (map[string]map[string]models.ProgressEntry, error)
	UpsertProgress(ctx context.Context, entry models.ProgressEntry) error
	DeleteProgressForQuiz(ctx context.Context, quizName string) error

	Close(ctx context.Context) error
}
