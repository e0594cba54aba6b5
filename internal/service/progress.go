package service

import (
	"context"
	"errors"

	"quiz-platform/internal/models"
	"quiz-platform/internal/store"
)

// ProgressService is the ledger of completed quiz runs. Writes are
// unconditional overwrites; there is no merge.
type ProgressService struct {
	Store store.Store
}

func NewProgressService(st store.Store) *ProgressService {
	return &ProgressService{Store: st}
}

func (s *ProgressService) Upsert(ctx context.Context, entry models.ProgressEntry) error {
	return s.Store.UpsertProgress(ctx, entry)
}

// Get returns the entry and ok=false (not an error) when none exists.
func (s *ProgressService) Get(ctx context.Context, userID, quizName string) (models.ProgressEntry, bool, error) {
	entry, err := s.Store.GetProgress(ctx, userID, quizName)
	if errors.Is(err, store.ErrNotFound) {
		return models.ProgressEntry{}, false, nil
	}
	if err != nil {
		return models.ProgressEntry{}, false, err
	}
	return entry, true, nil
}

func (s *ProgressService) ListForUser(ctx context.Context, userID string) (map[string]models.ProgressEntry, error) {
	return s.Store.ListProgressForUser(ctx, userID)
}

func (s *ProgressService) DeleteForQuiz(ctx context.Context, quizName string) error {
	return s.Store.DeleteProgressForQuiz(ctx, quizName)
}
