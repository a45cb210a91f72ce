package inmemory

import (
	"context"
	"sort"

	"kanbanBoard/internal/models/user"
	repo "kanbanBoard/internal/repository"
)

func (s *Storage) CreateUser(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.byUsername[userToCreate.Username]; ok {
		return repo.ErrAlreadyExists
	}

	s.lastUserID++
	userToCreate.ID = s.lastUserID

	stored := *userToCreate
	s.users[stored.ID] = &stored
	s.byUsername[stored.Username] = stored.ID
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	res := *u
	return &res, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	res := *s.users[id]
	return &res, nil
}

// ListUsers возвращает пользователей в порядке регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		res = append(res, &copied)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

// SaveToken привязывает токен к пользователю; у пользователя не бывает больше одного токена.
func (s *Storage) SaveToken(ctx context.Context, userID int64, token string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.users[userID]; !ok {
		return repo.ErrNotFound
	}
	if _, ok := s.userTokens[userID]; ok {
		return repo.ErrAlreadyExists
	}
	s.tokens[token] = userID
	s.userTokens[userID] = token
	return nil
}

func (s *Storage) GetToken(ctx context.Context, userID int64) (string, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	token, ok := s.userTokens[userID]
	if !ok {
		return "", repo.ErrNotFound
	}
	return token, nil
}

func (s *Storage) GetUserByToken(ctx context.Context, token string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.tokens[token]
	if !ok {
		return nil, repo.ErrNotFound
	}
	res := *s.users[id]
	return &res, nil
}
