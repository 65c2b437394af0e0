package service

import (
	"errors"
	"strings"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrValidation         = errors.New("validation error")
	ErrInternal           = errors.New("internal error")
)

// ValidationError - ошибка входных данных с перечнем полей.
// errors.Is(err, ErrValidation) для нее истинно.
type ValidationError struct {
	Issues []entity.FieldIssue
}

func NewValidationError(issues ...entity.FieldIssue) *ValidationError {
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
