package repository

import "errors"

var (
	ErrNotFound      = errors.New("запись не найдена")
	ErrAlreadyExists = errors.New("запись уже существует")
)

// TaskFilter ограничивает выборку задач; нулевые поля не фильтруют.
type TaskFilter struct {
	CreatorID int64
	Assignee  string
}
