package handlers

import (
	"context"

	"kanbanBoard/internal/dto"
	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"
)

type Service interface {
	HealthCheck(ctx context.Context) error

	Signup(ctx context.Context, req dto.SignupRequest) (*user.User, error)
	Login(ctx context.Context, username, password string) (string, *user.User, error)
	ListUsers(ctx context.Context) ([]*user.User, error)

	CreateTask(ctx context.Context, creator *user.User, req dto.CreateTaskRequest) (*task.Task, error)
	ListCreatedBy(ctx context.Context, requester *user.User) ([]*task.Task, error)
	ListAssignedTo(ctx context.Context, requester *user.User) ([]*task.Task, error)
	ListAll(ctx context.Context, requester *user.User) ([]*task.Task, error)
	GetTask(ctx context.Context, requester *user.User, id int64) (*task.Task, error)
	UpdateTask(ctx context.Context, requester *user.User, id int64, patch task.Patch) (*task.Task, error)
	DeleteTask(ctx context.Context, requester *user.User, id int64) error
}
