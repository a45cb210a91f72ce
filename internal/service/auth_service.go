package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kanbanBoard/internal/dto"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/user"
	rep "kanbanBoard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const MsgSignedUp = "Регистрация прошла успешно. Теперь можно войти."

type Service struct {
	repo       Repository
	staff      map[string]struct{}
	bcryptCost int
	newToken   func() string
}

type Option func(*Service)

// WithStaff задаёт пользователей с доступом к списку всех задач.
func WithStaff(usernames ...string) Option {
	return func(s *Service) {
		for _, name := range usernames {
			if name = strings.TrimSpace(name); name != "" {
				s.staff[name] = struct{}{}
			}
		}
	}
}

func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(repo Repository, options ...Option) *Service {
	s := &Service{
		repo:       repo,
		staff:      make(map[string]struct{}),
		bcryptCost: bcrypt.DefaultCost,
		newToken:   generateToken,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// generateToken возвращает 40 шестнадцатеричных символов.
func generateToken() string {
	first := strings.ReplaceAll(uuid.NewString(), "-", "")
	second := strings.ReplaceAll(uuid.NewString(), "-", "")
	return first + second[:8]
}

func (s *Service) isStaff(u *user.User) bool {
	if u.IsStaff {
		return true
	}
	_, ok := s.staff[u.Username]
	return ok
}

func (s *Service) Signup(ctx context.Context, req dto.SignupRequest) (*user.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, NewValidationError("username", "не может быть пустым")
	}
	if strings.ContainsAny(username, " \t\n") {
		return nil, NewValidationError("username", "не может содержать пробелы")
	}
	if req.Password == "" {
		return nil, NewValidationError("password", "не может быть пустым")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("хеширование пароля: %w", err)
	}

	newUser := &user.User{
		Username:     username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
	}
	newUser.IsStaff = s.isStaff(newUser)

	if err := s.repo.CreateUser(ctx, newUser); err != nil {
		if errors.Is(err, rep.ErrAlreadyExists) {
			logger.Info("Service: Имя пользователя занято", zap.String("username", username))
			return nil, NewBusinessError(CodeUsernameTaken, "Пользователь с таким именем уже существует.",
				ToDetail("field", "username"))
		}
		return nil, fmt.Errorf("регистрация пользователя: %w", err)
	}

	logger.Info("Service: Пользователь зарегистрирован",
		zap.Int64("user_id", newUser.ID),
		zap.String("username", username))
	return newUser, nil
}

func invalidCredentials() *BusinessError {
	return NewBusinessError(CodeInvalidCredentials, "Невозможно войти с предоставленными учётными данными.")
}

// Login проверяет пароль и возвращает единственный токен пользователя, создавая его при первом входе.
func (s *Service) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", nil, NewValidationError("credentials", "нужно указать имя пользователя и пароль")
	}

	u, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return "", nil, invalidCredentials()
		}
		return "", nil, fmt.Errorf("поиск пользователя: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		logger.Info("Service: Неверный пароль", zap.String("username", u.Username))
		return "", nil, invalidCredentials()
	}

	token, err := s.issueToken(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}

	logger.Info("Service: Успешный вход", zap.String("username", u.Username))
	return token, u, nil
}

func (s *Service) issueToken(ctx context.Context, userID int64) (string, error) {
	token, err := s.repo.GetToken(ctx, userID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, rep.ErrNotFound) {
		return "", fmt.Errorf("получение токена: %w", err)
	}

	token = s.newToken()
	err = s.repo.SaveToken(ctx, userID, token)
	if errors.Is(err, rep.ErrAlreadyExists) {
		// параллельный вход успел создать токен
		return s.repo.GetToken(ctx, userID)
	}
	if err != nil {
		return "", fmt.Errorf("сохранение токена: %w", err)
	}
	return token, nil
}

// Authenticate находит владельца токена.
func (s *Service) Authenticate(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, NewUnauthorized("Учётные данные не были предоставлены.")
	}

	u, err := s.repo.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewUnauthorized("Недействительный токен.")
		}
		return nil, fmt.Errorf("проверка токена: %w", err)
	}
	u.IsStaff = s.isStaff(u)
	return u, nil
}
