package service

import (
	"context"

	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"
	"kanbanBoard/internal/repository"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
	GetUserByToken(ctx context.Context, token string) (*user.User, error)
	ListUsers(ctx context.Context) ([]*user.User, error)
	SaveToken(ctx context.Context, userID int64, token string) error
	GetToken(ctx context.Context, userID int64) (string, error)
}

type TaskRepository interface {
	CreateTask(ctx context.Context, t *task.Task) error
	GetTaskByID(ctx context.Context, id int64) (*task.Task, error)
	UpdateTask(ctx context.Context, t *task.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context, filter repository.TaskFilter) ([]*task.Task, error)
}

// Repository - хранилище целиком; реализуется inmemory и postgres.
type Repository interface {
	UserRepository
	TaskRepository
	HealthCheck(ctx context.Context) error
}
