package gateway

import (
	"encoding/json"
	"io"
	"strings"
)

const (
	DefaultErrorMessage = "ошибка связи с сервером"
	UnreachableMessage  = "сервер недоступен"
)

// RemoteRequestError - единый тип ошибки для HTTP-отказов и сбоев транспорта.
// StatusCode равен 0, если ответ не был получен или не разобран.
type RemoteRequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteRequestError) Error() string {
	return e.Message
}

func (e *RemoteRequestError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Detail  any `json:"detail"`
	Message any `json:"message"`
}

// messageFromBody достаёт detail или message из тела ответа.
func messageFromBody(body io.Reader) string {
	var parsed errorBody
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return DefaultErrorMessage
	}
	if msg := asText(parsed.Detail); msg != "" {
		return msg
	}
	if msg := asText(parsed.Message); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}

func asText(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
