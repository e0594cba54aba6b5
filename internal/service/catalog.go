package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"quiz-platform/internal/models"
	"quiz-platform/internal/store"
)

// CatalogService owns the quiz catalog: quiz creation and deletion, and
// question add/edit/delete with validation. Every mutation is written through
// to the store synchronously.
type CatalogService struct {
	Store store.Store
}

func NewCatalogService(st store.Store) *CatalogService {
	return &CatalogService{Store: st}
}

// QuestionInput is the admin-supplied question payload. Options are kept in
// the given order; empty option strings are dropped before validation.
type QuestionInput struct {
	Text          string   `json:"question" binding:"required"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

func (in QuestionInput) validate() ([]string, error) {
	if in.Text == "" {
		return nil, validationf("question text must not be empty")
	}
	options := make([]string, 0, len(in.Options))
	for _, opt := range in.Options {
		if opt != "" {
			options = append(options, opt)
		}
	}
	if len(options) < 1 {
		return nil, validationf("at least one non-empty option is required")
	}
	found := false
	for _, opt := range options {
		if opt == in.CorrectOption {
			found = true
			break
		}
	}
	if !found {
		return nil, validationf("correct option must be one of the provided options")
	}
	if in.Explanation == "" {
		return nil, validationf("explanation must not be empty")
	}
	return options, nil
}

func (s *CatalogService) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	return s.Store.ListQuizzes(ctx)
}

func (s *CatalogService) GetQuiz(ctx context.Context, name string) (models.Quiz, error) {
	quiz, err := s.Store.GetQuiz(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return models.Quiz{}, ErrNotFound
	}
	return quiz, err
}

// CreateQuiz inserts an empty quiz under a new name.
func (s *CatalogService) CreateQuiz(ctx context.Context, name string) error {
	if name == "" {
		return validationf("quiz name must not be empty")
	}
	_, err := s.Store.GetQuiz(ctx, name)
	if err == nil {
		return ErrDuplicateName
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return s.Store.PutQuiz(ctx, models.Quiz{Name: name, Questions: []models.Question{}})
}

// AddQuestion validates and appends a question, assigning its surrogate id.
func (s *CatalogService) AddQuestion(ctx context.Context, quizName string, in QuestionInput) (models.Question, error) {
	options, err := in.validate()
	if err != nil {
		return models.Question{}, err
	}
	quiz, err := s.GetQuiz(ctx, quizName)
	if err != nil {
		return models.Question{}, err
	}
	q := models.Question{
		ID:            uuid.NewString(),
		Text:          in.Text,
		Options:       options,
		CorrectOption: in.CorrectOption,
		Explanation:   in.Explanation,
	}
	quiz.Questions = append(quiz.Questions, q)
	if err := s.Store.PutQuiz(ctx, quiz); err != nil {
		return models.Question{}, err
	}
	return q, nil
}

// UpdateQuestion validates and overwrites the question with the given id in
// place, keeping its position and id.
func (s *CatalogService) UpdateQuestion(ctx context.Context, quizName, questionID string, in QuestionInput) (models.Question, error) {
	options, err := in.validate()
	if err != nil {
		return models.Question{}, err
	}
	quiz, err := s.GetQuiz(ctx, quizName)
	if err != nil {
		return models.Question{}, err
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID != questionID {
			continue
		}
		quiz.Questions[i] = models.Question{
			ID:            questionID,
			Text:          in.Text,
			Options:       options,
			CorrectOption: in.CorrectOption,
			Explanation:   in.Explanation,
		}
		if err := s.Store.PutQuiz(ctx, quiz); err != nil {
			return models.Question{}, err
		}
		return quiz.Questions[i], nil
	}
	return models.Question{}, ErrNotFound
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, quizName, questionID string) error {
	quiz, err := s.GetQuiz(ctx, quizName)
	if err != nil {
		return err
	}
	for i := range quiz.Questions {
		if quiz.Questions[i].ID != questionID {
			continue
		}
		quiz.Questions = append(quiz.Questions[:i], quiz.Questions[i+1:]...)
		return s.Store.PutQuiz(ctx, quiz)
	}
	return ErrNotFound
}

// DeleteQuiz removes the quiz and cascades: every user's progress entry for
// the quiz is removed as well.
func (s *CatalogService) DeleteQuiz(ctx context.Context, name string) error {
	err := s.Store.DeleteQuiz(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.Store.DeleteProgressForQuiz(ctx, name)
}
