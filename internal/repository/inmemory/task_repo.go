package inmemory

import (
	"context"
	"slices"
	"time"

	"kanbanBoard/internal/models/task"
	repo "kanbanBoard/internal/repository"
)

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	creator, ok := s.users[taskToCreate.Creator]
	if !ok {
		return repo.ErrNotFound
	}

	now := time.Now().UTC()
	s.lastTaskID++
	taskToCreate.ID = s.lastTaskID
	taskToCreate.CreatorName = creator.Username
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now

	s.tasks[taskToCreate.ID] = cloneTask(taskToCreate)
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneTask(taskToGet), nil
}

func (s *Storage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.tasks[taskToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}

	taskToUpdate.Creator = existing.Creator
	taskToUpdate.CreatorName = existing.CreatorName
	taskToUpdate.CreatedAt = existing.CreatedAt
	taskToUpdate.UpdatedAt = time.Now().UTC()

	s.tasks[taskToUpdate.ID] = cloneTask(taskToUpdate)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.tasks, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// ListTasks возвращает задачи в порядке создания.
func (s *Storage) ListTasks(ctx context.Context, filter repo.TaskFilter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.tasks[id]
		if filter.CreatorID != 0 && t.Creator != filter.CreatorID {
			continue
		}
		if filter.Assignee != "" && !t.AssignedToUser(filter.Assignee) {
			continue
		}
		res = append(res, cloneTask(t))
	}
	return res, nil
}

func cloneTask(t *task.Task) *task.Task {
	res := *t
	res.AssignedTo = slices.Clone(t.AssignedTo)
	if res.AssignedTo == nil {
		res.AssignedTo = []string{}
	}
	return &res
}
