package task

import (
	"encoding/json"
	"fmt"
	"time"
)

type Task struct {
	ID          int64     `json:"id" db:"id"`
	Creator     int64     `json:"creator" db:"creator_id"`
	CreatorName string    `json:"creator_name" db:"creator_name"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Progress    int       `json:"progress" db:"progress"`
	AssignedTo  []string  `json:"assigned_to" db:"-"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const StatusToDo Status = "TO_DO"
const StatusInProgress Status = "IN_PROGRESS"
const StatusCompleted Status = "COMPLETED"

const MinProgress = 0
const MaxProgress = 100

// Statuses перечисляет колонки доски в порядке отображения.
var Statuses = []Status{StatusToDo, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// DragProgress возвращает прогресс, который получает задача при переносе в колонку s.
func (s Status) DragProgress() int {
	switch s {
	case StatusCompleted:
		return 100
	case StatusInProgress:
		return 50
	default:
		return 0
	}
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalJSON требует статус: задача без колонки не может появиться на доске.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.Status == "" {
		return fmt.Errorf("задача %d: отсутствует статус", decoded.ID)
	}
	*t = Task(decoded)
	return nil
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("неизвестный статус %q", raw)
	}
	return s, nil
}

// SyncProgress связывает статус и прогресс после обновления задачи, бывшей в статусе previous.
// Переход в COMPLETED ставит 100, прогресс 100 переводит в COMPLETED,
// прогресс 1..99 переводит в IN_PROGRESS. Нулевой прогресс статус не меняет.
func (t *Task) SyncProgress(previous Status) {
	if t.Status == StatusCompleted && previous != StatusCompleted {
		t.Progress = MaxProgress
	}

	switch {
	case t.Progress == MaxProgress:
		t.Status = StatusCompleted
	case t.Progress > MinProgress:
		t.Status = StatusInProgress
	}
}

// AssignedToUser сообщает, назначена ли задача пользователю username.
func (t *Task) AssignedToUser(username string) bool {
	for _, name := range t.AssignedTo {
		if name == username {
			return true
		}
	}
	return false
}
