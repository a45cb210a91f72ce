package board

import (
	"context"
	"fmt"

	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/task"

	"go.uber.org/zap"
)

// DragStart запоминает копию перетаскиваемой задачи.
func (c *Controller) DragStart(t task.Task) {
	snapshot := t
	c.mu.Lock()
	c.dragged = &snapshot
	c.mu.Unlock()
}

func (c *Controller) Dragged() (task.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.dragged == nil {
		return task.Task{}, false
	}
	return *c.dragged, true
}

func (c *Controller) clearDragged() {
	c.mu.Lock()
	c.dragged = nil
	c.mu.Unlock()
}

// Drop переносит запомненную задачу в колонку target. Статус меняется только после
// подтверждения сервером; прогресс перезаписывается значением колонки.
func (c *Controller) Drop(ctx context.Context, target task.Status) error {
	defer c.clearDragged()

	dragged, ok := c.Dragged()
	if !ok || dragged.Status == target {
		return nil
	}
	if !target.Valid() {
		return NewValidationError("status", fmt.Sprintf("неизвестный статус %q", target))
	}

	progress := target.DragProgress()
	patch := task.NewPatch(task.WithStatus(target), task.WithProgress(progress))

	if _, err := c.gw.UpdateTask(ctx, dragged.ID, patch); err != nil {
		logger.Warn("Board: Ошибка переноса задачи",
			zap.Int64("task_id", dragged.ID),
			zap.String("from", string(dragged.Status)),
			zap.String("to", string(target)),
			zap.Error(err))
		c.notifier.Failure(msgStatusFailed)
		return err
	}

	logger.Info("Board: Задача перенесена",
		zap.Int64("task_id", dragged.ID),
		zap.String("from", string(dragged.Status)),
		zap.String("to", string(target)),
		zap.Int("progress", progress))
	c.notifier.Success(msgStatusChanged)
	return c.Refresh(ctx)
}

// MoveTask - перенос задачи из текущей коллекции без жеста мыши.
func (c *Controller) MoveTask(ctx context.Context, id int64, target task.Status) error {
	t, ok := c.Task(id)
	if !ok {
		return NewValidationError("id", fmt.Sprintf("задача %d не найдена на доске", id))
	}
	c.DragStart(t)
	return c.Drop(ctx, target)
}
