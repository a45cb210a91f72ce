package dto

import (
	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"
)

type SignupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type SignupResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  []string `json:"assigned_to,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse - тело ответа с ошибкой; клиент читает detail, затем message.
type ErrorResponse struct {
	Detail  string         `json:"detail,omitempty"`
	Message string         `json:"message,omitempty"`
	Code    string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func FromUserList(users []*user.User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i, u := range users {
		result[i] = FromUser(u)
	}
	return result
}

// FromTaskList разыменовывает задачи; nil-срез превращается в пустой JSON-массив.
func FromTaskList(tasks []*task.Task) []task.Task {
	result := make([]task.Task, len(tasks))
	for i, t := range tasks {
		result[i] = *t
		if result[i].AssignedTo == nil {
			result[i].AssignedTo = []string{}
		}
	}
	return result
}
