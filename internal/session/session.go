// Package session хранит токен и логин текущего пользователя в долговременном
// key-value хранилище, чтобы сессия переживала перезапуск клиента.
package session

import (
	"context"
	"fmt"
	"sync"

	"kanbanBoard/internal/logger"

	"go.uber.org/zap"
)

const (
	TokenKey    = "auth_token"
	UsernameKey = "username"
)

// Storage - долговременное key-value хранилище сессии.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	storage Storage

	mu       sync.RWMutex
	token    string
	username string
}

// New читает хранилище один раз; отсутствие токена означает отсутствие сессии.
func New(ctx context.Context, storage Storage) (*Store, error) {
	token, _, err := storage.Get(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("чтение токена: %w", err)
	}
	username, _, err := storage.Get(ctx, UsernameKey)
	if err != nil {
		return nil, fmt.Errorf("чтение имени пользователя: %w", err)
	}

	s := &Store{storage: storage, token: token}
	if token != "" {
		s.username = username
	}
	logger.Debug("Session: Сессия загружена", zap.Bool("authenticated", token != ""))
	return s, nil
}

func (s *Store) Login(ctx context.Context, token, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("сохранение токена: %w", err)
	}
	if err := s.storage.Set(ctx, UsernameKey, username); err != nil {
		return fmt.Errorf("сохранение имени пользователя: %w", err)
	}

	s.token = token
	s.username = username
	logger.Info("Session: Вход выполнен", zap.String("username", username))
	return nil
}

// Logout очищает память даже если хранилище вернуло ошибку.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := s.username
	s.token = ""
	s.username = ""

	if err := s.storage.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("удаление токена: %w", err)
	}
	if err := s.storage.Delete(ctx, UsernameKey); err != nil {
		return fmt.Errorf("удаление имени пользователя: %w", err)
	}

	logger.Info("Session: Выход выполнен", zap.String("username", username))
	return nil
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}
