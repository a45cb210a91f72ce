// Package gateway - типизированный HTTP-клиент REST API доски задач.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kanbanBoard/internal/dto"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/task"
	"kanbanBoard/internal/models/user"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultAuthScheme = "Token"

// TokenSource отдаёт текущий токен сессии; пустая строка означает анонимный запрос.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	authScheme string
	httpClient *http.Client
	tokens     TokenSource
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithAuthScheme(scheme string) Option {
	return func(c *Client) {
		if scheme != "" {
			c.authScheme = scheme
		}
	}
}

// WithTimeout ограничивает время запроса; 0 оставляет поведение транспорта по умолчанию.
// Таймаут ставится на копию клиента, переданный через WithHTTPClient клиент не меняется.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		copied := *c.httpClient
		copied.Timeout = timeout
		c.httpClient = &copied
	}
}

func New(baseURL string, tokens TokenSource, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authScheme: DefaultAuthScheme,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		tokens:     tokens,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	var resp dto.SignupResponse
	if err := c.do(ctx, http.MethodPost, "/tasks/signup/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/tasks/login/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	if err := c.do(ctx, http.MethodGet, "/tasks/users-list/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.MessageResponse, error) {
	var resp dto.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/tasks/create/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListMyTasks(ctx context.Context) ([]task.Task, error) {
	return c.listTasks(ctx, "/tasks/created-by-me/")
}

func (c *Client) ListAssignedTasks(ctx context.Context) ([]task.Task, error) {
	return c.listTasks(ctx, "/tasks/assigned-to-me/")
}

func (c *Client) ListAllTasks(ctx context.Context) ([]task.Task, error) {
	return c.listTasks(ctx, "/tasks/list/")
}

func (c *Client) GetTask(ctx context.Context, id int64) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodGet, detailPath(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask отправляет PATCH только с заданными полями патча.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodPatch, detailPath(id), patch, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, detailPath(id), nil, nil)
}

func (c *Client) listTasks(ctx context.Context, path string) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func detailPath(id int64) string {
	return fmt.Sprintf("/tasks/detail/%d", id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("кодирование тела запроса: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", c.authScheme+" "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.HttpClientInfo(method, url, 0, time.Since(start))
		return &RemoteRequestError{Message: UnreachableMessage, Err: err}
	}
	defer resp.Body.Close()

	logger.HttpClientInfo(method, url, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteRequestError{
			StatusCode: resp.StatusCode,
			Message:    messageFromBody(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &RemoteRequestError{
			Message: DefaultErrorMessage,
			Err:     fmt.Errorf("разбор ответа %s %s: %w", method, path, err),
		}
	}
	return nil
}
