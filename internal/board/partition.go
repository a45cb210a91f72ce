package board

import "kanbanBoard/internal/models/task"

// Columns - три колонки доски, вычисляемые из плоского списка задач.
type Columns struct {
	ToDo       []task.Task
	InProgress []task.Task
	Completed  []task.Task
}

// Partition раскладывает задачи по статусам, сохраняя исходный порядок внутри колонки.
// Задача с неизвестным статусом попадает в To Do, поэтому колонки покрывают весь вход.
func Partition(tasks []task.Task) Columns {
	cols := Columns{
		ToDo:       []task.Task{},
		InProgress: []task.Task{},
		Completed:  []task.Task{},
	}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusInProgress:
			cols.InProgress = append(cols.InProgress, t)
		case task.StatusCompleted:
			cols.Completed = append(cols.Completed, t)
		default:
			cols.ToDo = append(cols.ToDo, t)
		}
	}
	return cols
}

func (c Columns) Column(status task.Status) []task.Task {
	switch status {
	case task.StatusToDo:
		return c.ToDo
	case task.StatusInProgress:
		return c.InProgress
	case task.StatusCompleted:
		return c.Completed
	}
	return nil
}

func (c Columns) Len() int {
	return len(c.ToDo) + len(c.InProgress) + len(c.Completed)
}
