package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"kanbanBoard/internal/dto"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/service"

	"go.uber.org/zap"
)

func (s *TaskHandler) Signup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	created, err := s.Service.Signup(r.Context(), request)
	if err != nil {
		handleServiceError(w, r, err, "signup")
		return
	}

	logger.Info("HTTP_OUT: Пользователь зарегистрирован",
		zap.String("username", created.Username),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithBody(w, http.StatusCreated, dto.SignupResponse{
		Message:  service.MsgSignedUp,
		Username: created.Username,
	})
}

func (s *TaskHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	token, u, err := s.Service.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		handleServiceError(w, r, err, "login")
		return
	}

	logger.Info("HTTP_OUT: Вход выполнен",
		zap.String("username", u.Username),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithBody(w, http.StatusOK, dto.LoginResponse{
		Token:    token,
		UserID:   u.ID,
		Username: u.Username,
	})
}

func (s *TaskHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	users, err := s.Service.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_users")
		return
	}

	responseWithBody(w, http.StatusOK, dto.FromUserList(users))
}
