package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/user"
	repo "kanbanBoard/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const userColumns = `id, username, first_name, last_name, password_hash, is_staff`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsStaff)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Storage) CreateUser(ctx context.Context, userToCreate *user.User) error {
	start := time.Now()
	defer warnIfSlow("create_user", start)

	query := `INSERT INTO users (username, first_name, last_name, password_hash, is_staff)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		userToCreate.Username,
		userToCreate.FirstName,
		userToCreate.LastName,
		userToCreate.PasswordHash,
		userToCreate.IsStaff,
	).Scan(&userToCreate.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}
	return nil
}

func (s *Storage) getUser(ctx context.Context, operation, query string, arg any) (*user.User, error) {
	start := time.Now()
	defer warnIfSlow(operation, start)

	u, err := scanUser(s.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err, zap.String("operation", operation))
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return u, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.getUser(ctx, "get_user_by_id", query, id)
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return s.getUser(ctx, "get_user_by_username", query, username)
}

func (s *Storage) GetUserByToken(ctx context.Context, token string) (*user.User, error) {
	query := `SELECT u.id, u.username, u.first_name, u.last_name, u.password_hash, u.is_staff
				FROM auth_tokens t
				JOIN users u ON u.id = t.user_id
				WHERE t.key = $1`
	return s.getUser(ctx, "get_user_by_token", query, token)
}

func (s *Storage) ListUsers(ctx context.Context) ([]*user.User, error) {
	start := time.Now()
	defer warnIfSlow("list_users", start)

	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		logger.Error("Repository: Не удалось получить пользователей", err)
		return nil, fmt.Errorf("получение пользователей: %w", err)
	}
	defer rows.Close()

	users := []*user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования пользователя", zap.Error(err))
			return nil, fmt.Errorf("сканирование пользователя: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}
	return users, nil
}

func (s *Storage) SaveToken(ctx context.Context, userID int64, token string) error {
	start := time.Now()
	defer warnIfSlow("save_token", start)

	_, err := s.pool.Exec(ctx, `INSERT INTO auth_tokens (key, user_id) VALUES ($1, $2)`, token, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return repo.ErrAlreadyExists
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось сохранить токен", err)
		return fmt.Errorf("сохранение токена: %w", err)
	}
	return nil
}

func (s *Storage) GetToken(ctx context.Context, userID int64) (string, error) {
	start := time.Now()
	defer warnIfSlow("get_token", start)

	var token string
	err := s.pool.QueryRow(ctx, `SELECT key FROM auth_tokens WHERE user_id = $1`, userID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить токен", err)
		return "", fmt.Errorf("получение токена: %w", err)
	}
	return token, nil
}
