package service

import (
	"context"
	"errors"

	"quiz-platform/internal/models"
	"quiz-platform/internal/store"
)

// UserService manages accounts. Credentials live in the users document as
// the original deployment wrote them; a failed login is a plain rejection,
// not part of the error taxonomy.
type UserService struct {
	Store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{Store: st}
}

// Authenticate returns the user when the id/password pair matches, and
// ok=false otherwise.
func (s *UserService) Authenticate(ctx context.Context, id, password string) (models.User, bool, error) {
	user, err := s.Store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	if user.Password != password {
		return models.User{}, false, nil
	}
	return user, true, nil
}

// CreateStudent registers a new student account.
func (s *UserService) CreateStudent(ctx context.Context, id, password string) error {
	if id == "" || password == "" {
		return validationf("user id and password must not be empty")
	}
	err := s.Store.CreateUser(ctx, models.User{ID: id, Password: password, Role: models.RoleStudent})
	if errors.Is(err, store.ErrDuplicate) {
		return ErrDuplicateName
	}
	return err
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Store.ListUsers(ctx)
}
