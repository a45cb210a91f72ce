// Package cli - командный интерфейс доски задач поверх клиентской библиотеки.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"kanbanBoard/internal/board"
	"kanbanBoard/internal/config"
	"kanbanBoard/internal/gateway"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/session"
	"kanbanBoard/internal/session/sqlite"

	"github.com/spf13/cobra"
)

var (
	errNotLoggedIn = errors.New("вход не выполнен: используйте 'board login'")
	errEmptyToken  = errors.New("сервер не вернул токен")
)

type CLI struct {
	out      io.Writer
	storage  session.Storage
	reported bool

	cfg   *config.Config
	store *session.Store
	gw    *gateway.Client
	close func() error
}

type Option func(*CLI)

func WithOutput(w io.Writer) Option {
	return func(c *CLI) {
		c.out = w
	}
}

// WithSessionStorage подменяет файл SQLite переданным хранилищем.
func WithSessionStorage(storage session.Storage) Option {
	return func(c *CLI) {
		c.storage = storage
	}
}

func New(options ...Option) *CLI {
	c := &CLI{out: os.Stdout}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Execute собирает дерево команд, выполняет его с args и закрывает хранилище сессии.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	defer c.shutdown()

	c.reported = false
	root := c.command()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if c.reported {
			return &ReportedError{Err: err}
		}
		return err
	}
	return nil
}

func (c *CLI) command() *cobra.Command {
	var (
		configPath string
		apiURL     string
		verbose    bool
	)

	root := &cobra.Command{
		Use:           "board",
		Short:         "Канбан-доска задач",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context(), configPath, apiURL, verbose)
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.out)

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "путь к файлу конфигурации")
	root.PersistentFlags().StringVar(&apiURL, "api", "", "адрес API (перекрывает client.base_url)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный лог в stderr")

	root.AddCommand(
		c.signupCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.usersCmd(),
		c.boardCmd(),
		c.watchCmd(),
		c.showCmd(),
		c.createCmd(),
		c.editCmd(),
		c.moveCmd(),
		c.deleteCmd(),
	)
	return root
}

func (c *CLI) open(ctx context.Context, configPath, apiURL string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.Client.BaseURL = apiURL
	}
	c.cfg = cfg

	if verbose {
		if err := logger.Init(true); err != nil {
			return fmt.Errorf("инициализация логгера: %w", err)
		}
		if err := logger.SetLevel(cfg.Logging.Level); err != nil {
			return fmt.Errorf("уровень логгирования: %w", err)
		}
	}

	storage := c.storage
	if storage == nil {
		db, err := sqlite.Open(cfg.Client.SessionPath)
		if err != nil {
			return err
		}
		storage = db
		c.close = db.Close
	}

	store, err := session.New(ctx, storage)
	if err != nil {
		return err
	}
	c.store = store

	opts := []gateway.Option{}
	if cfg.Client.AuthScheme != "" {
		opts = append(opts, gateway.WithAuthScheme(cfg.Client.AuthScheme))
	}
	if cfg.Client.Timeout > 0 {
		opts = append(opts, gateway.WithTimeout(cfg.Client.Timeout))
	}
	c.gw = gateway.New(cfg.Client.BaseURL, store, opts...)
	return nil
}

func (c *CLI) shutdown() {
	if c.close != nil {
		_ = c.close()
		c.close = nil
	}
	logger.Sync()
}

func (c *CLI) requireSession() error {
	if !c.store.Authenticated() {
		return errNotLoggedIn
	}
	return nil
}

// controller создаёт доску с уведомлениями в вывод команды.
func (c *CLI) controller(options ...board.Option) *board.Controller {
	return board.NewController(c.gw, &printNotifier{w: c.out, cli: c}, options...)
}

type printNotifier struct {
	w   io.Writer
	cli *CLI
}

func (n *printNotifier) Success(message string) {
	fmt.Fprintln(n.w, "OK:", message)
}

func (n *printNotifier) Failure(message string) {
	n.cli.reported = true
	fmt.Fprintln(n.w, "Ошибка:", message)
}

// ReportedError - ошибка команды, о которой пользователь уже уведомлён.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// IsReported сообщает, что ошибку повторно печатать не нужно.
func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}

func parseScope(raw string) (board.Scope, error) {
	switch strings.ToLower(raw) {
	case "", "mine", "my", string(board.ScopeMine):
		return board.ScopeMine, nil
	case "assigned", "assigned-to-me":
		return board.ScopeAssigned, nil
	}
	return "", fmt.Errorf("неизвестное представление %q: ожидается mine или assigned", raw)
}
