package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kanbanBoard/internal/board"
	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/worker"

	"github.com/spf13/cobra"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("неверный ID задачи %q", raw)
	}
	return id, nil
}

// parseStatus принимает имя колонки в любом регистре: todo, in-progress, completed.
func parseStatus(raw string) (task.Status, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_"))
	switch normalized {
	case "TODO":
		normalized = string(task.StatusToDo)
	case "DONE":
		normalized = string(task.StatusCompleted)
	}
	return task.ParseStatus(normalized)
}

func (c *CLI) boardCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Показать доску из трёх колонок",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			scope, err := parseScope(view)
			if err != nil {
				return err
			}

			ctrl := c.controller()
			if err := ctrl.SetView(cmd.Context(), scope); err != nil {
				return err
			}
			renderBoard(c.out, ctrl.Columns(), time.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "mine", "представление: mine или assigned")
	return cmd
}

func (c *CLI) watchCmd() *cobra.Command {
	var (
		view     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Показывать доску и перерисовывать её при изменениях",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			scope, err := parseScope(view)
			if err != nil {
				return err
			}

			// первую загрузку делает сам наблюдатель
			ctrl := c.controller(board.WithScope(scope))
			w := worker.NewBoardWatcher(ctrl, &interval, func(cols board.Columns) {
				now := time.Now()
				fmt.Fprintf(c.out, "--- %s ---\n", now.Format(time.TimeOnly))
				renderBoard(c.out, cols, now)
			})
			w.Start(cmd.Context())
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "mine", "представление: mine или assigned")
	cmd.Flags().DurationVar(&interval, "interval", worker.DefaultWatchInterval, "период обновления")
	return cmd
}

func (c *CLI) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Подробности задачи",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			t, err := c.gw.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderTask(c.out, t, time.Now())
			return nil
		},
	}
}

func (c *CLI) createCmd() *cobra.Command {
	var (
		title       string
		description string
		assignees   []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать задачу в колонке To Do",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			return c.controller().CreateTask(cmd.Context(), title, description, assignees)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "заголовок")
	cmd.Flags().StringVarP(&description, "description", "d", "", "описание")
	cmd.Flags().StringSliceVarP(&assignees, "assign", "a", nil, "исполнители (логины через запятую)")
	return cmd
}

func (c *CLI) editCmd() *cobra.Command {
	var (
		title       string
		description string
		progress    int
		status      string
		assignees   []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Изменить поля задачи",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			// в запрос попадают только явно заданные флаги
			var options []task.PatchOption
			flags := cmd.Flags()
			if flags.Changed("title") {
				options = append(options, task.WithTitle(title))
			}
			if flags.Changed("description") {
				options = append(options, task.WithDescription(description))
			}
			if flags.Changed("progress") {
				options = append(options, task.WithProgress(progress))
			}
			if flags.Changed("status") {
				parsed, err := parseStatus(status)
				if err != nil {
					return err
				}
				options = append(options, task.WithStatus(parsed))
			}
			if flags.Changed("assign") {
				options = append(options, task.WithAssignees(assignees))
			}

			return c.controller().UpdateTask(cmd.Context(), id, options...)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "заголовок")
	cmd.Flags().StringVarP(&description, "description", "d", "", "описание")
	cmd.Flags().IntVar(&progress, "progress", 0, "прогресс 0..100")
	cmd.Flags().StringVar(&status, "status", "", "статус: todo, in-progress, completed")
	cmd.Flags().StringSliceVarP(&assignees, "assign", "a", nil, "исполнители (пустое значение снимает всех)")
	return cmd
}

func (c *CLI) moveCmd() *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Перенести задачу в другую колонку",
		Long:  "Перенос ставит прогресс по колонке: To Do 0, In Progress 50, Completed 100.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			scope, err := parseScope(view)
			if err != nil {
				return err
			}

			ctrl := c.controller()
			if err := ctrl.SetView(cmd.Context(), scope); err != nil {
				return err
			}
			return ctrl.MoveTask(cmd.Context(), id, target)
		},
	}

	cmd.Flags().StringVar(&view, "view", "mine", "представление, в котором искать задачу")
	return cmd
}

func (c *CLI) deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить задачу",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireSession(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			err = c.controller().DeleteTask(cmd.Context(), id, yes)
			if errors.Is(err, board.ErrNotConfirmed) {
				return fmt.Errorf("%w: повторите с флагом --yes", err)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "подтвердить удаление")
	return cmd
}
