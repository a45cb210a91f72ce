package handlers

import (
	"errors"
	"net/http"

	"kanbanBoard/internal/dto"
	"kanbanBoard/internal/logger"
	"kanbanBoard/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	responseWithBody(w, statusCode, dto.ErrorResponse{
		Detail:  businessErr.Message,
		Message: businessErr.Message,
		Code:    businessErr.Code,
		Details: businessErr.Details,
	})
	return true
}

// handleServiceError отвечает на ошибку сервиса; всё, что не BusinessError, считается внутренней ошибкой.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	if handleBusinessError(w, err) {
		return
	}

	logger.Error("HTTP: Ошибка Service", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeUsernameTaken, service.CodeInvalidCredentials:
		return http.StatusBadRequest
	case service.CodeUnauthorized:
		return http.StatusUnauthorized
	case service.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
