// Package board держит состояние доски задач клиента: коллекцию задач активного
// представления, справочник пользователей и три производные колонки.
//
// Все изменения проходят через Controller и всегда завершаются полной перезагрузкой
// данных с сервера. Локальная коллекция никогда не правится по месту.
package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"kanbanBoard/internal/dto"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Scope string

const (
	ScopeMine     Scope = "my-tasks"
	ScopeAssigned Scope = "assigned"
)

func (s Scope) Valid() bool {
	return s == ScopeMine || s == ScopeAssigned
}

// Gateway - операции удалённого API, которые нужны доске.
type Gateway interface {
	ListMyTasks(ctx context.Context) ([]task.Task, error)
	ListAssignedTasks(ctx context.Context) ([]task.Task, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.MessageResponse, error)
	UpdateTask(ctx context.Context, id int64, patch task.Patch) (*task.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type Controller struct {
	gw       Gateway
	notifier Notifier

	mu      sync.RWMutex
	scope   Scope
	tasks   []task.Task
	users   []user.User
	columns Columns
	loading bool
	dragged *task.Task

	createBusy atomic.Bool
	editBusy   atomic.Bool
}

type Option func(*Controller)

// WithScope задаёт начальное представление без загрузки данных; неизвестное значение игнорируется.
func WithScope(scope Scope) Option {
	return func(c *Controller) {
		if scope.Valid() {
			c.scope = scope
		}
	}
}

func NewController(gw Gateway, notifier Notifier, options ...Option) *Controller {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	c := &Controller{
		gw:       gw,
		notifier: notifier,
		scope:    ScopeMine,
		columns:  Partition(nil),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Controller) Scope() Scope {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scope
}

// SetView переключает представление и сразу перезагружает данные.
func (c *Controller) SetView(ctx context.Context, scope Scope) error {
	if !scope.Valid() {
		return NewValidationError("scope", fmt.Sprintf("неизвестное представление %q", scope))
	}

	c.mu.Lock()
	c.scope = scope
	c.mu.Unlock()

	logger.Info("Board: Смена представления", zap.String("scope", string(scope)))
	return c.Refresh(ctx)
}

// Refresh параллельно загружает задачи активного представления и список пользователей.
// При ошибке предыдущее состояние сохраняется.
func (c *Controller) Refresh(ctx context.Context) error {
	scope := c.Scope()
	c.setLoading(true)
	defer c.setLoading(false)

	var (
		tasks []task.Task
		users []user.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if scope == ScopeAssigned {
			tasks, err = c.gw.ListAssignedTasks(gctx)
		} else {
			tasks, err = c.gw.ListMyTasks(gctx)
		}
		return err
	})
	g.Go(func() error {
		var err error
		users, err = c.gw.ListUsers(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Warn("Board: Ошибка загрузки данных",
			zap.String("scope", string(scope)),
			zap.Error(err))
		c.notifier.Failure(msgFetchFailed)
		return fmt.Errorf("загрузка доски: %w", err)
	}

	c.mu.Lock()
	c.tasks = tasks
	c.users = users
	c.columns = Partition(tasks)
	c.mu.Unlock()

	logger.Debug("Board: Данные обновлены",
		zap.String("scope", string(scope)),
		zap.Int("tasks", len(tasks)),
		zap.Int("users", len(users)))
	return nil
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Controller) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Controller) Tasks() []task.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tasks)
}

func (c *Controller) Users() []user.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.users)
}

func (c *Controller) Columns() Columns {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Columns{
		ToDo:       slices.Clone(c.columns.ToDo),
		InProgress: slices.Clone(c.columns.InProgress),
		Completed:  slices.Clone(c.columns.Completed),
	}
}

// Task ищет задачу в текущей коллекции.
func (c *Controller) Task(id int64) (task.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return task.Task{}, false
}

func (c *Controller) CreateTask(ctx context.Context, title, description string, assignees []string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "не может быть пустым")
	}
	if strings.TrimSpace(description) == "" {
		return NewValidationError("description", "не может быть пустым")
	}

	if !c.createBusy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.createBusy.Store(false)

	req := dto.CreateTaskRequest{
		Title:       title,
		Description: description,
		AssignedTo:  task.NormalizeAssignees(assignees),
	}
	if _, err := c.gw.CreateTask(ctx, req); err != nil {
		logger.Warn("Board: Ошибка создания задачи", zap.Error(err))
		c.notifier.Failure(failureMessage(err, msgCreateFallback))
		return err
	}

	c.notifier.Success(msgTaskCreated)
	return c.Refresh(ctx)
}

func (c *Controller) UpdateTask(ctx context.Context, id int64, options ...task.PatchOption) error {
	patch := task.NewPatch(options...)
	if patch.Empty() {
		return NewValidationError("patch", "нет полей для обновления")
	}
	if err := patch.Validate(); err != nil {
		var fieldErr *task.FieldError
		if errors.As(err, &fieldErr) {
			return NewValidationError(fieldErr.Field, fieldErr.Reason)
		}
		return err
	}

	if !c.editBusy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.editBusy.Store(false)

	if _, err := c.gw.UpdateTask(ctx, id, patch); err != nil {
		logger.Warn("Board: Ошибка обновления задачи", zap.Int64("task_id", id), zap.Error(err))
		c.notifier.Failure(failureMessage(err, msgUpdateFallback))
		return err
	}

	c.notifier.Success(msgTaskUpdated)
	return c.Refresh(ctx)
}

// DeleteTask удаляет задачу только при явном подтверждении пользователя.
func (c *Controller) DeleteTask(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	if err := c.gw.DeleteTask(ctx, id); err != nil {
		logger.Warn("Board: Ошибка удаления задачи", zap.Int64("task_id", id), zap.Error(err))
		c.notifier.Failure(failureMessage(err, msgDeleteFallback))
		return err
	}

	c.notifier.Success(msgTaskDeleted)
	return c.Refresh(ctx)
}
