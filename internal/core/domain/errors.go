package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrSyncInProgress = errors.New("sync run already in progress")
	ErrUnknownMode    = errors.New("unknown sync mode")
)

// FieldError - ошибка валидации конкретного поля входных данных
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is позволяет проверять errors.Is(err, ErrValidation)
func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

// NewFieldError создает ошибку валидации поля
func NewFieldError(field, message string) error {
	return &FieldError{Field: field, Message: message}
}
