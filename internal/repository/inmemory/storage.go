package inmemory

import (
	"context"
	"sync"

	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"
)

// Storage хранит пользователей, токены и задачи в памяти процесса.
type Storage struct {
	mtx *sync.RWMutex

	users      map[int64]*user.User
	byUsername map[string]int64
	tokens     map[string]int64
	userTokens map[int64]string
	lastUserID int64

	tasks      map[int64]*task.Task
	ids        []int64
	lastTaskID int64
}

func New() *Storage {
	return &Storage{
		mtx:        &sync.RWMutex{},
		users:      make(map[int64]*user.User),
		byUsername: make(map[string]int64),
		tokens:     make(map[string]int64),
		userTokens: make(map[int64]string),
		tasks:      make(map[int64]*task.Task),
		ids:        []int64{},
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) Close() {}
