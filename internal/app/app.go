package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kanbanBoard/internal/config"
	"kanbanBoard/internal/handlers"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/middleware"
	"kanbanBoard/internal/repository/inmemory"
	"kanbanBoard/internal/repository/postgres"
	"kanbanBoard/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	server     *http.Server
	repository service.Repository
	service    *service.Service
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	if err := logger.SetLevel(a.config.Logging.Level); err != nil {
		return fmt.Errorf("уровень логгирования: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repo, err := a.initRepository(ctx)
	if err != nil {
		return err
	}
	a.repository = repo

	a.service = service.New(repo, service.WithStaff(a.config.Server.StaffUsernames...))

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           NewRouter(a.service, a.config.Server),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

func (a *App) initRepository(ctx context.Context) (service.Repository, error) {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		db := a.config.Database
		if db.AutoMigrate {
			if err := postgres.Migrate(db.URL); err != nil {
				return nil, fmt.Errorf("миграции: %w", err)
			}
		}

		storage, err := postgres.New(ctx, db.URL, postgres.Options{
			MaxConns:        db.MaxConnections,
			MinConns:        db.MinConnections,
			MaxConnIdleTime: db.IdleTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		return storage, nil
	default:
		logger.Info("App: Используется хранилище в памяти")
		return inmemory.New(), nil
	}
}

// NewRouter собирает маршруты API доски.
func NewRouter(svc *service.Service, cfg config.ServerConfig) http.Handler {
	h := handlers.NewTaskHandler(svc)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimit))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/signup/", h.Signup) // POST /tasks/signup/
		r.Post("/login/", h.Login)   // POST /tasks/login/

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(svc))

			r.Get("/users-list/", h.ListUsers)          // GET /tasks/users-list/
			r.Post("/create/", h.PostTask)              // POST /tasks/create/
			r.Get("/created-by-me/", h.GetCreatedTasks) // GET /tasks/created-by-me/
			r.Get("/assigned-to-me/", h.GetAssignedTasks)
			r.Get("/list/", h.GetAllTasks) // только для сотрудников

			for _, pattern := range []string{"/detail/{id}", "/detail/{id}/"} {
				r.Get(pattern, h.GetTaskByID)
				r.Patch(pattern, h.PatchTaskByID)
				r.Delete(pattern, h.DeleteTaskByID)
			}
		})
	})

	return otelhttp.NewHandler(r, "kanban-api")
}

// Run обслуживает запросы до отмены ctx, затем плавно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return errors.New("приложение не инициализировано")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("App: Ошибка сервера", err)
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// Shutdown освобождает ресурсы в обратном порядке.
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
