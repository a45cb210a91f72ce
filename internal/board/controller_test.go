package board_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"kanbanBoard/internal/board"
	"kanbanBoard/internal/dto"
	"kanbanBoard/internal/gateway"
	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway - мок удалённого API
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListMyTasks(ctx context.Context) ([]task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockGateway) ListAssignedTasks(ctx context.Context) ([]task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

func (m *MockGateway) ListUsers(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockGateway) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}

func (m *MockGateway) UpdateTask(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockGateway) DeleteTask(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ board.Gateway = (*MockGateway)(nil)
var _ board.Gateway = (*gateway.Client)(nil)

// recordingNotifier запоминает уведомления
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Failure(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, message)
}

var testUsers = []user.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}

func loadedController(t *testing.T, tasks []task.Task) (*board.Controller, *MockGateway, *recordingNotifier) {
	t.Helper()
	gw := new(MockGateway)
	notifier := &recordingNotifier{}
	ctrl := board.NewController(gw, notifier)

	gw.On("ListMyTasks", mock.Anything).Return(tasks, nil).Once()
	gw.On("ListUsers", mock.Anything).Return(testUsers, nil).Once()
	require.NoError(t, ctrl.Refresh(context.Background()))
	return ctrl, gw, notifier
}

// TestController_Refresh тестирует загрузку данных
func TestController_Refresh(t *testing.T) {
	tasks := []task.Task{
		{ID: 1, Status: task.StatusToDo},
		{ID: 2, Status: task.StatusCompleted},
	}
	ctrl, gw, _ := loadedController(t, tasks)

	assert.Equal(t, board.ScopeMine, ctrl.Scope())
	assert.Equal(t, tasks, ctrl.Tasks())
	assert.Equal(t, testUsers, ctrl.Users())
	assert.Equal(t, []int64{1}, ids(ctrl.Columns().ToDo))
	assert.Equal(t, []int64{2}, ids(ctrl.Columns().Completed))
	assert.False(t, ctrl.Loading())
	gw.AssertExpectations(t)
}

// TestController_RefreshFailureKeepsState тестирует сохранение состояния при ошибке
func TestController_RefreshFailureKeepsState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*MockGateway)
	}{
		{
			name: "tasks fail",
			setup: func(m *MockGateway) {
				m.On("ListMyTasks", mock.Anything).Return(nil, &gateway.RemoteRequestError{Message: "boom"})
				m.On("ListUsers", mock.Anything).Return([]user.User{}, nil).Maybe()
			},
		},
		{
			name: "users fail",
			setup: func(m *MockGateway) {
				m.On("ListMyTasks", mock.Anything).Return([]task.Task{}, nil).Maybe()
				m.On("ListUsers", mock.Anything).Return(nil, &gateway.RemoteRequestError{Message: "boom"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := []task.Task{{ID: 3, Status: task.StatusInProgress}}
			ctrl, gw, notifier := loadedController(t, initial)
			tt.setup(gw)

			err := ctrl.Refresh(context.Background())
			require.Error(t, err)

			var remoteErr *gateway.RemoteRequestError
			assert.True(t, errors.As(err, &remoteErr))
			assert.Equal(t, initial, ctrl.Tasks())
			assert.Equal(t, testUsers, ctrl.Users())
			assert.Equal(t, []int64{3}, ids(ctrl.Columns().InProgress))
			assert.Len(t, notifier.failures, 1)
		})
	}
}

// TestController_SetView тестирует переключение представления
// TestController_RefreshRejectsTaskWithoutStatus тестирует что задача без статуса не попадает в коллекцию
func TestController_RefreshRejectsTaskWithoutStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/tasks/created-by-me/":
			_, _ = w.Write([]byte(`[{"id":1,"status":"TO_DO"},{"id":2}]`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	notifier := &recordingNotifier{}
	ctrl := board.NewController(gateway.New(srv.URL, nil), notifier)

	err := ctrl.Refresh(context.Background())
	var remoteErr *gateway.RemoteRequestError
	require.ErrorAs(t, err, &remoteErr)
	assert.Empty(t, ctrl.Tasks())
	assert.Equal(t, len(ctrl.Tasks()), ctrl.Columns().Len())
}

// TestController_WithScope тестирует начальное представление без лишней загрузки
func TestController_WithScope(t *testing.T) {
	gw := &MockGateway{}
	ctrl := board.NewController(gw, &recordingNotifier{}, board.WithScope(board.ScopeAssigned))
	assert.Equal(t, board.ScopeAssigned, ctrl.Scope())
	gw.AssertNotCalled(t, "ListAssignedTasks", mock.Anything)

	gw.On("ListAssignedTasks", mock.Anything).Return([]task.Task{{ID: 3, Status: task.StatusToDo}}, nil).Once()
	gw.On("ListUsers", mock.Anything).Return(testUsers, nil).Once()
	require.NoError(t, ctrl.Refresh(context.Background()))
	assert.Len(t, ctrl.Tasks(), 1)
	gw.AssertExpectations(t)

	ignored := board.NewController(gw, nil, board.WithScope("everything"))
	assert.Equal(t, board.ScopeMine, ignored.Scope())
}

func TestController_SetView(t *testing.T) {
	ctrl, gw, _ := loadedController(t, []task.Task{{ID: 1, Status: task.StatusToDo}})

	assigned := []task.Task{{ID: 10, Status: task.StatusInProgress}}
	gw.On("ListAssignedTasks", mock.Anything).Return(assigned, nil).Once()
	gw.On("ListUsers", mock.Anything).Return(testUsers, nil).Once()

	require.NoError(t, ctrl.SetView(context.Background(), board.ScopeAssigned))
	assert.Equal(t, board.ScopeAssigned, ctrl.Scope())
	assert.Equal(t, assigned, ctrl.Tasks())

	err := ctrl.SetView(context.Background(), board.Scope("everything"))
	var validationErr *board.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, board.ScopeAssigned, ctrl.Scope())

	gw.AssertExpectations(t)
}

// TestController_CreateTask тестирует создание задачи
func TestController_CreateTask(t *testing.T) {
	t.Run("success refetches", func(t *testing.T) {
		ctrl, gw, notifier := loadedController(t, []task.Task{})

		gw.On("CreateTask", mock.Anything, dto.CreateTaskRequest{
			Title:       "Write docs",
			Description: "For the board",
			AssignedTo:  []string{"bob"},
		}).Return(&dto.MessageResponse{Message: "ok"}, nil).Once()

		created := []task.Task{{ID: 1, Title: "Write docs", Status: task.StatusToDo}}
		gw.On("ListMyTasks", mock.Anything).Return(created, nil).Once()
		gw.On("ListUsers", mock.Anything).Return(testUsers, nil).Once()

		err := ctrl.CreateTask(context.Background(), "Write docs", "For the board", []string{"bob", " bob ", ""})
		require.NoError(t, err)

		assert.Equal(t, created, ctrl.Tasks())
		assert.Len(t, notifier.successes, 1)
		gw.AssertExpectations(t)
	})

	t.Run("blank fields never reach gateway", func(t *testing.T) {
		cases := []struct{ title, description, field string }{
			{"", "desc", "title"},
			{"   ", "desc", "title"},
			{"title", "", "description"},
			{"title", "\t\n ", "description"},
		}
		for _, tc := range cases {
			gw := new(MockGateway)
			ctrl := board.NewController(gw, &recordingNotifier{})

			err := ctrl.CreateTask(context.Background(), tc.title, tc.description, nil)
			var validationErr *board.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tc.field, validationErr.Field)
			gw.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
		}
	})

	t.Run("remote rejection surfaces exact message", func(t *testing.T) {
		initial := []task.Task{{ID: 1, Status: task.StatusToDo}, {ID: 2, Status: task.StatusToDo}}
		ctrl, gw, notifier := loadedController(t, initial)

		gw.On("CreateTask", mock.Anything, mock.Anything).
			Return(nil, &gateway.RemoteRequestError{StatusCode: 400, Message: "duplicate title"}).Once()

		err := ctrl.CreateTask(context.Background(), "Dup", "Desc", nil)
		require.Error(t, err)
		assert.Equal(t, "duplicate title", err.Error())
		assert.Equal(t, []string{"duplicate title"}, notifier.failures)
		assert.Len(t, ctrl.Tasks(), 2)
		gw.AssertNumberOfCalls(t, "ListMyTasks", 1)
	})
}

// TestController_CreateTaskBusy тестирует блокировку повторной отправки формы
func TestController_CreateTaskBusy(t *testing.T) {
	gw := new(MockGateway)
	ctrl := board.NewController(gw, &recordingNotifier{})

	started := make(chan struct{})
	release := make(chan struct{})
	gw.On("CreateTask", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, errors.New("rejected")).Once()

	done := make(chan error)
	go func() {
		done <- ctrl.CreateTask(context.Background(), "A", "B", nil)
	}()

	<-started
	err := ctrl.CreateTask(context.Background(), "A", "B", nil)
	assert.ErrorIs(t, err, board.ErrBusy)

	close(release)
	assert.EqualError(t, <-done, "rejected")
	gw.AssertNumberOfCalls(t, "CreateTask", 1)
}

// TestController_UpdateTask тестирует частичное обновление
func TestController_UpdateTask(t *testing.T) {
	t.Run("sends only provided fields", func(t *testing.T) {
		ctrl, gw, notifier := loadedController(t, []task.Task{{ID: 4, Status: task.StatusToDo}})

		expected := task.NewPatch(task.WithTitle("New"), task.WithProgress(30))
		gw.On("UpdateTask", mock.Anything, int64(4), expected).Return(&task.Task{ID: 4}, nil).Once()
		gw.On("ListMyTasks", mock.Anything).Return([]task.Task{{ID: 4, Title: "New", Progress: 30, Status: task.StatusToDo}}, nil).Once()
		gw.On("ListUsers", mock.Anything).Return(testUsers, nil).Once()

		require.NoError(t, ctrl.UpdateTask(context.Background(), 4, task.WithTitle("New"), task.WithProgress(30)))

		// прогресс меняется без смены статуса
		got, ok := ctrl.Task(4)
		require.True(t, ok)
		assert.Equal(t, task.StatusToDo, got.Status)
		assert.Equal(t, 30, got.Progress)
		assert.Len(t, notifier.successes, 1)
		gw.AssertExpectations(t)
	})

	t.Run("local validation", func(t *testing.T) {
		cases := []struct {
			name    string
			options []task.PatchOption
			field   string
		}{
			{"empty patch", nil, "patch"},
			{"blank title", []task.PatchOption{task.WithTitle(" ")}, "title"},
			{"blank description", []task.PatchOption{task.WithDescription("")}, "description"},
			{"progress too high", []task.PatchOption{task.WithProgress(101)}, "progress"},
			{"negative progress", []task.PatchOption{task.WithProgress(-1)}, "progress"},
			{"unknown status", []task.PatchOption{task.WithStatus("DONE")}, "status"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				gw := new(MockGateway)
				ctrl := board.NewController(gw, nil)

				err := ctrl.UpdateTask(context.Background(), 1, tc.options...)
				var validationErr *board.ValidationError
				require.True(t, errors.As(err, &validationErr))
				assert.Equal(t, tc.field, validationErr.Field)
				gw.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("remote failure keeps collection", func(t *testing.T) {
		initial := []task.Task{{ID: 4, Title: "Old", Status: task.StatusToDo}}
		ctrl, gw, notifier := loadedController(t, initial)

		gw.On("UpdateTask", mock.Anything, int64(4), mock.Anything).
			Return(nil, &gateway.RemoteRequestError{StatusCode: 404, Message: "Not found."}).Once()

		err := ctrl.UpdateTask(context.Background(), 4, task.WithTitle("New"))
		require.Error(t, err)
		assert.Equal(t, initial, ctrl.Tasks())
		assert.Equal(t, []string{"Not found."}, notifier.failures)
	})
}

// TestController_DeleteTask тестирует удаление с подтверждением
func TestController_DeleteTask(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		ctrl, gw, _ := loadedController(t, []task.Task{{ID: 1, Status: task.StatusToDo}})

		err := ctrl.DeleteTask(context.Background(), 1, false)
		assert.ErrorIs(t, err, board.ErrNotConfirmed)
		gw.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
		assert.Len(t, ctrl.Tasks(), 1)
	})

	t.Run("confirmed delete refetches", func(t *testing.T) {
		ctrl, gw, notifier := loadedController(t, []task.Task{{ID: 1, Status: task.StatusToDo}})

		gw.On("DeleteTask", mock.Anything, int64(1)).Return(nil).Once()
		gw.On("ListMyTasks", mock.Anything).Return([]task.Task{}, nil).Once()
		gw.On("ListUsers", mock.Anything).Return(testUsers, nil).Once()

		require.NoError(t, ctrl.DeleteTask(context.Background(), 1, true))
		assert.Empty(t, ctrl.Tasks())
		assert.Len(t, notifier.successes, 1)
		gw.AssertExpectations(t)
	})

	t.Run("failure keeps collection", func(t *testing.T) {
		ctrl, gw, notifier := loadedController(t, []task.Task{{ID: 1, Status: task.StatusToDo}})

		gw.On("DeleteTask", mock.Anything, int64(1)).
			Return(&gateway.RemoteRequestError{Message: gateway.UnreachableMessage}).Once()

		err := ctrl.DeleteTask(context.Background(), 1, true)
		require.Error(t, err)
		assert.Len(t, ctrl.Tasks(), 1)
		assert.Equal(t, []string{gateway.UnreachableMessage}, notifier.failures)
	})
}
