package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"kanbanBoard/internal/board"
	"kanbanBoard/internal/models/task"

	"github.com/dustin/go-humanize"
)

var columnTitles = map[task.Status]string{
	task.StatusToDo:       "To Do",
	task.StatusInProgress: "In Progress",
	task.StatusCompleted:  "Completed",
}

// renderBoard печатает три колонки подряд в порядке отображения.
func renderBoard(w io.Writer, cols board.Columns, now time.Time) {
	for i, status := range task.Statuses {
		if i > 0 {
			fmt.Fprintln(w)
		}
		column := cols.Column(status)
		fmt.Fprintf(w, "== %s (%d) ==\n", columnTitles[status], len(column))
		if len(column) == 0 {
			fmt.Fprintln(w, "  пусто")
			continue
		}
		for _, t := range column {
			fmt.Fprintf(w, "  #%-4d %s [%d%%]%s, %s\n",
				t.ID, t.Title, t.Progress, assigneesSuffix(t), updatedAgo(t, now))
		}
	}
}

func renderTask(w io.Writer, t *task.Task, now time.Time) {
	fmt.Fprintf(w, "#%d %s\n", t.ID, t.Title)
	fmt.Fprintf(w, "Статус:      %s (%d%%)\n", columnTitles[t.Status], t.Progress)
	fmt.Fprintf(w, "Автор:       %s\n", t.CreatorName)
	if len(t.AssignedTo) > 0 {
		fmt.Fprintf(w, "Исполнители: %s\n", strings.Join(t.AssignedTo, ", "))
	}
	fmt.Fprintf(w, "Обновлена:   %s\n", updatedAgo(*t, now))
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}
}

func assigneesSuffix(t task.Task) string {
	if len(t.AssignedTo) == 0 {
		return ""
	}
	return " @" + strings.Join(t.AssignedTo, " @")
}

func updatedAgo(t task.Task, now time.Time) string {
	if t.UpdatedAt.IsZero() {
		return "без даты"
	}
	return humanize.RelTime(t.UpdatedAt, now, "ago", "from now")
}
