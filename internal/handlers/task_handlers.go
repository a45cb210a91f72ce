package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"kanbanBoard/internal/dto"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/middleware"
	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"
	"kanbanBoard/internal/service"

	"go.uber.org/zap"
)

type TaskHandler struct {
	Service Service
}

func NewTaskHandler(svc Service) TaskHandler {
	return TaskHandler{
		Service: svc,
	}
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.Service.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		healthCheck(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	healthCheck(w, http.StatusOK, "ok")
}

// requester достаёт пользователя, которого положил middleware.Auth.
func requester(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		responseWithError(w, http.StatusUnauthorized, "Учётные данные не были предоставлены.")
		return nil, false
	}
	return u, true
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requester(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	created, err := s.Service.CreateTask(r.Context(), u, request)
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.MessageResponse{Message: service.MsgTaskCreated})
}

type listFunc func(ctx context.Context, requester *user.User) ([]*task.Task, error)

func (s *TaskHandler) listTasks(w http.ResponseWriter, r *http.Request, operation string, list listFunc) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requester(w, r)
	if !ok {
		return
	}

	tasks, err := list(r.Context(), u)
	if err != nil {
		handleServiceError(w, r, err, operation)
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.String("operation", operation),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (s *TaskHandler) GetCreatedTasks(w http.ResponseWriter, r *http.Request) {
	s.listTasks(w, r, "list_created", s.Service.ListCreatedBy)
}

func (s *TaskHandler) GetAssignedTasks(w http.ResponseWriter, r *http.Request) {
	s.listTasks(w, r, "list_assigned", s.Service.ListAssignedTo)
}

func (s *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	s.listTasks(w, r, "list_all", s.Service.ListAll)
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requester(w, r)
	if !ok {
		return
	}

	id, err := taskIDParam(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id")
		return
	}

	t, err := s.Service.GetTask(r.Context(), u, id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTaskList([]*task.Task{t})[0])
}

func (s *TaskHandler) PatchTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requester(w, r)
	if !ok {
		return
	}

	id, err := taskIDParam(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id")
		return
	}

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var patch task.Patch
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	updated, err := s.Service.UpdateTask(r.Context(), u, id, patch)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", updated.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.FromTaskList([]*task.Task{updated})[0])
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	u, ok := requester(w, r)
	if !ok {
		return
	}

	id, err := taskIDParam(r)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id")
		return
	}

	if err := s.Service.DeleteTask(r.Context(), u, id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}
