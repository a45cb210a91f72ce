package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/models/user"
	"kanbanBoard/internal/service"

	"go.uber.org/zap"
)

const UserKey contextKey = "user"

// схемы заголовка Authorization, которые принимает сервер
var authSchemes = []string{"Token", "Bearer"}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.User, error)
}

// Auth пропускает запрос дальше только с действительным токеном и кладёт пользователя в контекст.
func Auth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := GetRequestID(r.Context())

			token, ok := tokenFromHeader(r.Header.Get("Authorization"))
			if !ok {
				logger.Warn("HTTP: Запрос без токена",
					zap.String("request_id", requestId),
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr))

				unauthorized(w, "Учётные данные не были предоставлены.")
				return
			}

			u, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				var busErr *service.BusinessError
				if errors.As(err, &busErr) {
					logger.Warn("HTTP: Недействительный токен",
						zap.String("request_id", requestId),
						zap.String("client_ip", r.RemoteAddr))

					unauthorized(w, busErr.Message)
					return
				}

				logger.Error("HTTP: Ошибка проверки токена", err, zap.String("request_id", requestId))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{"detail": "внутренняя ошибка сервера"})
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromHeader(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	for _, allowed := range authSchemes {
		if strings.EqualFold(scheme, allowed) {
			return token, true
		}
	}
	return "", false
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Token")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"detail": detail})
}

func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserKey).(*user.User)
	return u, ok && u != nil
}

// WithUser кладёт пользователя в контекст; используется в тестах обработчиков.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}
