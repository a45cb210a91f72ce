package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"kanbanBoard/internal/dto"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"
	rep "kanbanBoard/internal/repository"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

const MaxTitleLength = 100

const MsgTaskCreated = "Задача создана и находится в колонке To Do."

func (s *Service) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context) ([]*user.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение пользователей: %w", err)
	}
	return users, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "не может быть пустым")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NewValidationError("title", fmt.Sprintf("не длиннее %d символов", MaxTitleLength))
	}
	return nil
}

// checkAssignees проверяет, что все исполнители зарегистрированы.
func (s *Service) checkAssignees(ctx context.Context, usernames []string) error {
	for _, name := range usernames {
		_, err := s.repo.GetUserByUsername(ctx, name)
		if errors.Is(err, rep.ErrNotFound) {
			return NewValidationError("assigned_to", fmt.Sprintf("пользователь %q не существует", name))
		}
		if err != nil {
			return fmt.Errorf("проверка исполнителей: %w", err)
		}
	}
	return nil
}

func (s *Service) CreateTask(ctx context.Context, creator *user.User, req dto.CreateTaskRequest) (*task.Task, error) {
	if err := validateTitle(req.Title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, NewValidationError("description", "не может быть пустым")
	}

	assignees := task.NormalizeAssignees(req.AssignedTo)
	if err := s.checkAssignees(ctx, assignees); err != nil {
		return nil, err
	}

	newTask := &task.Task{
		Creator:     creator.ID,
		Title:       req.Title,
		Description: req.Description,
		Progress:    task.MinProgress,
		Status:      task.StatusToDo,
		AssignedTo:  assignees,
	}
	if err := s.repo.CreateTask(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Info("Service: Задача создана",
		zap.Int64("task_id", newTask.ID),
		zap.String("creator", creator.Username),
		zap.Int("assignees", len(assignees)))
	return newTask, nil
}

func (s *Service) ListCreatedBy(ctx context.Context, requester *user.User) ([]*task.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, rep.TaskFilter{CreatorID: requester.ID})
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

func (s *Service) ListAssignedTo(ctx context.Context, requester *user.User) ([]*task.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, rep.TaskFilter{Assignee: requester.Username})
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

// ListAll доступен только сотрудникам.
func (s *Service) ListAll(ctx context.Context, requester *user.User) ([]*task.Task, error) {
	if !s.isStaff(requester) {
		logger.Warn("Service: Отказ в доступе к списку всех задач", zap.String("username", requester.Username))
		return nil, NewBusinessError(CodeForbidden, "Недостаточно прав для выполнения данного действия.")
	}

	tasks, err := s.repo.ListTasks(ctx, rep.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

// GetTask видит только задачи, созданные запрашивающим; чужие задачи неотличимы от отсутствующих.
func (s *Service) GetTask(ctx context.Context, requester *user.User, id int64) (*task.Task, error) {
	t, err := s.repo.GetTaskByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewNotFound(ResourceTask, strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if t.Creator != requester.ID {
		logger.Info("Service: Задача принадлежит другому пользователю",
			zap.Int64("target_id", id),
			zap.String("username", requester.Username))
		return nil, NewNotFound(ResourceTask, strconv.FormatInt(id, 10))
	}
	return t, nil
}

// UpdateTask применяет патч и затем связывает статус с прогрессом (см. task.SyncProgress).
func (s *Service) UpdateTask(ctx context.Context, requester *user.User, id int64, patch task.Patch) (*task.Task, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if err := patch.Validate(); err != nil {
		var fieldErr *task.FieldError
		if errors.As(err, &fieldErr) {
			return nil, NewValidationError(fieldErr.Field, fieldErr.Reason)
		}
		return nil, err
	}
	if patch.AssignedTo != nil {
		normalized := task.NormalizeAssignees(*patch.AssignedTo)
		if err := s.checkAssignees(ctx, normalized); err != nil {
			return nil, err
		}
		patch.AssignedTo = &normalized
	}

	t, err := s.GetTask(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	previous := t.Status
	patch.Apply(t)
	t.SyncProgress(previous)
	if err := s.repo.UpdateTask(ctx, t); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(ResourceTask, strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	logger.Info("Service: Задача обновлена",
		zap.Int64("task_id", t.ID),
		zap.String("status", string(t.Status)),
		zap.Int("progress", t.Progress))
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, requester *user.User, id int64) error {
	if _, err := s.GetTask(ctx, requester, id); err != nil {
		return err
	}

	if err := s.repo.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(ResourceTask, strconv.FormatInt(id, 10))
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена", zap.Int64("task_id", id))
	return nil
}
