package handlers

import (
	"encoding/json"
	"net/http"

	"kanbanBoard/internal/logger"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	storage := make(map[string]any)
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	responseWithBody(w, code, storage)
}

// responseWithBody пишет произвольное значение, например список задач.
func responseWithBody(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

// responseWithError отдаёт сообщение в поле detail, которое читает клиент.
func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, toPayload("detail", message))
}

func healthCheck(w http.ResponseWriter, code int, status string) {
	responseWithJSON(w, code,
		toPayload("service", "kanban-board"),
		toPayload("status", status),
	)
}
