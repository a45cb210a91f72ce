package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/task"
	repo "kanbanBoard/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const selectTasks = `SELECT
				t.id,
				t.creator_id,
				c.username,
				t.title,
				t.description,
				t.progress,
				t.status,
				t.created_at,
				t.updated_at,
				ARRAY(
					SELECT u.username
					FROM task_assignees ta
					JOIN users u ON u.id = ta.user_id
					WHERE ta.task_id = t.id
					ORDER BY ta.position
				) AS assigned_to
				FROM tasks t
				JOIN users c ON c.id = t.creator_id`

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	var status string
	err := row.Scan(
		&t.ID,
		&t.Creator,
		&t.CreatorName,
		&t.Title,
		&t.Description,
		&t.Progress,
		&status,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.AssignedTo,
	)
	if err != nil {
		return nil, err
	}
	t.Status = task.Status(status)
	if t.AssignedTo == nil {
		t.AssignedTo = []string{}
	}
	return t, nil
}

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()
	defer warnIfSlow("create_task", start)

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		query := `INSERT INTO tasks (creator_id, title, description, progress, status)
					VALUES ($1, $2, $3, $4, $5)
					RETURNING id, created_at, updated_at,
						(SELECT username FROM users WHERE id = $1)`

		err := tx.QueryRow(ctx, query,
			taskToCreate.Creator,
			taskToCreate.Title,
			taskToCreate.Description,
			taskToCreate.Progress,
			string(taskToCreate.Status),
		).Scan(&taskToCreate.ID, &taskToCreate.CreatedAt, &taskToCreate.UpdatedAt, &taskToCreate.CreatorName)
		if err != nil {
			return fmt.Errorf("добавление задачи: %w", err)
		}

		return replaceAssignees(ctx, tx, taskToCreate.ID, taskToCreate.AssignedTo)
	})
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return err
	}
	return nil
}

// replaceAssignees перезаписывает исполнителей задачи, сохраняя порядок имён.
func replaceAssignees(ctx context.Context, tx pgx.Tx, taskID int64, usernames []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM task_assignees WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("очистка исполнителей: %w", err)
	}

	batch := &pgx.Batch{}
	for position, username := range usernames {
		batch.Queue(`INSERT INTO task_assignees (task_id, user_id, position)
						SELECT $1, id, $3 FROM users WHERE username = $2`,
			taskID, username, position)
	}
	if batch.Len() == 0 {
		return nil
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range usernames {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("добавление исполнителей: %w", err)
		}
	}
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("get_task", start)

	t, err := scanTask(s.pool.QueryRow(ctx, selectTasks+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

func (s *Storage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()
	defer warnIfSlow("update_task", start)

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		query := `UPDATE tasks
				SET title = $1,
					description = $2,
					progress = $3,
					status = $4,
					updated_at = NOW()
				WHERE id = $5
				RETURNING updated_at`

		err := tx.QueryRow(ctx, query,
			taskToUpdate.Title,
			taskToUpdate.Description,
			taskToUpdate.Progress,
			string(taskToUpdate.Status),
			taskToUpdate.ID,
		).Scan(&taskToUpdate.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repo.ErrNotFound
			}
			return fmt.Errorf("обновление задачи: %w", err)
		}

		return replaceAssignees(ctx, tx, taskToUpdate.ID, taskToUpdate.AssignedTo)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return err
		}
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return err
	}
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	start := time.Now()
	defer warnIfSlow("delete_task", start)

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) ListTasks(ctx context.Context, filter repo.TaskFilter) ([]*task.Task, error) {
	start := time.Now()
	defer warnIfSlow("list_tasks", start)

	query := selectTasks + `
				WHERE ($1::bigint = 0 OR t.creator_id = $1)
				AND ($2::text = '' OR EXISTS (
					SELECT 1 FROM task_assignees ta
					JOIN users u ON u.id = ta.user_id
					WHERE ta.task_id = t.id AND u.username = $2
				))
				ORDER BY t.id`

	rows, err := s.pool.Query(ctx, query, filter.CreatorID, filter.Assignee)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return tasks, nil
}
