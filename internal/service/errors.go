package service

import "errors"

var (
	ErrDuplicateName = errors.New("name already exists")
	ErrNotFound      = errors.New("not found")
)

// ValidationError reports malformed caller input. Recoverable: the caller
// should fix the input and retry.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
