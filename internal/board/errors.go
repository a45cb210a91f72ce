package board

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfirmed = errors.New("удаление не подтверждено")
	ErrBusy         = errors.New("форма уже отправляется")
)

// ValidationError - локальная ошибка ввода; запрос к серверу при ней не отправляется.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("неверное значение поля '%s': %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
