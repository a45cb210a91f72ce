package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"
	"kanbanBoard/internal/repository"
	"kanbanBoard/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestSuite для интеграционных тестов с PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	connString string
	ctx        context.Context
}

// SetupSuite запускается один раз перед всеми тестами
func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	require.NoError(s.T(), postgres.Migrate(s.connString))
	// повторный запуск миграций не должен ломаться
	require.NoError(s.T(), postgres.Migrate(s.connString))

	s.storage, err = postgres.New(s.ctx, s.connString, postgres.Options{MaxConns: 4})
	require.NoError(s.T(), err)
}

// TearDownSuite очищает после всех тестов
func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицы перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "TRUNCATE task_assignees, tasks, auth_tokens, users RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err)
}

// TestPostgresTestSuite запускает suite
func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func (s *PostgresTestSuite) createUser(username string) *user.User {
	u := &user.User{Username: username, PasswordHash: "hash"}
	require.NoError(s.T(), s.storage.CreateUser(s.ctx, u))
	return u
}

func (s *PostgresTestSuite) TestStorage_HealthCheck() {
	assert.NoError(s.T(), s.storage.HealthCheck(s.ctx))
}

// TestStorage_Users тестирует пользователей и токены
func (s *PostgresTestSuite) TestStorage_Users() {
	alice := s.createUser("alice")
	s.createUser("bob")
	assert.NotZero(s.T(), alice.ID)

	err := s.storage.CreateUser(s.ctx, &user.User{Username: "alice", PasswordHash: "x"})
	assert.ErrorIs(s.T(), err, repository.ErrAlreadyExists)

	found, err := s.storage.GetUserByUsername(s.ctx, "alice")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), alice.ID, found.ID)
	assert.Equal(s.T(), "hash", found.PasswordHash)

	_, err = s.storage.GetUserByID(s.ctx, 9999)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	users, err := s.storage.ListUsers(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), users, 2)

	require.NoError(s.T(), s.storage.SaveToken(s.ctx, alice.ID, "key-1"))
	assert.ErrorIs(s.T(), s.storage.SaveToken(s.ctx, alice.ID, "key-2"), repository.ErrAlreadyExists)

	token, err := s.storage.GetToken(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "key-1", token)

	owner, err := s.storage.GetUserByToken(s.ctx, "key-1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "alice", owner.Username)

	_, err = s.storage.GetUserByToken(s.ctx, "missing")
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestStorage_TaskLifecycle тестирует создание, обновление и удаление задачи
func (s *PostgresTestSuite) TestStorage_TaskLifecycle() {
	alice := s.createUser("alice")
	s.createUser("bob")
	s.createUser("carol")

	created := &task.Task{
		Creator:     alice.ID,
		Title:       "Test Task",
		Description: "Test Description",
		Status:      task.StatusToDo,
		AssignedTo:  []string{"carol", "bob"},
	}
	require.NoError(s.T(), s.storage.CreateTask(s.ctx, created))
	assert.NotZero(s.T(), created.ID)
	assert.Equal(s.T(), "alice", created.CreatorName)
	assert.False(s.T(), created.CreatedAt.IsZero())

	got, err := s.storage.GetTaskByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Test Task", got.Title)
	assert.Equal(s.T(), task.StatusToDo, got.Status)
	assert.Equal(s.T(), []string{"carol", "bob"}, got.AssignedTo)

	got.Progress = 75
	got.Status = task.StatusCompleted
	got.AssignedTo = []string{}
	require.NoError(s.T(), s.storage.UpdateTask(s.ctx, got))

	updated, err := s.storage.GetTaskByID(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 75, updated.Progress)
	assert.Equal(s.T(), task.StatusCompleted, updated.Status)
	assert.Empty(s.T(), updated.AssignedTo)

	require.NoError(s.T(), s.storage.DeleteTask(s.ctx, created.ID))
	_, err = s.storage.GetTaskByID(s.ctx, created.ID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
	assert.ErrorIs(s.T(), s.storage.DeleteTask(s.ctx, created.ID), repository.ErrNotFound)
	assert.ErrorIs(s.T(), s.storage.UpdateTask(s.ctx, updated), repository.ErrNotFound)
}

// TestStorage_ListTasks тестирует фильтры выборки
func (s *PostgresTestSuite) TestStorage_ListTasks() {
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	fixtures := []*task.Task{
		{Creator: alice.ID, Title: "a1", Description: "d", Status: task.StatusToDo, AssignedTo: []string{"bob"}},
		{Creator: bob.ID, Title: "b1", Description: "d", Status: task.StatusInProgress, Progress: 50, AssignedTo: []string{"alice", "bob"}},
		{Creator: alice.ID, Title: "a2", Description: "d", Status: task.StatusCompleted, Progress: 100},
	}
	for _, f := range fixtures {
		require.NoError(s.T(), s.storage.CreateTask(s.ctx, f))
	}

	titles := func(tasks []*task.Task) []string {
		res := []string{}
		for _, t := range tasks {
			res = append(res, t.Title)
		}
		return res
	}

	all, err := s.storage.ListTasks(s.ctx, repository.TaskFilter{})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"a1", "b1", "a2"}, titles(all))

	mine, err := s.storage.ListTasks(s.ctx, repository.TaskFilter{CreatorID: alice.ID})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"a1", "a2"}, titles(mine))

	assigned, err := s.storage.ListTasks(s.ctx, repository.TaskFilter{Assignee: "bob"})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []string{"a1", "b1"}, titles(assigned))
	assert.Equal(s.T(), []string{"alice", "bob"}, assigned[1].AssignedTo)

	none, err := s.storage.ListTasks(s.ctx, repository.TaskFilter{Assignee: "nobody"})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), none)
}
