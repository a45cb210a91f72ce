package board

import (
	"kanbanBoard/internal/logger"

	"go.uber.org/zap"
)

// Notifier показывает пользователю короткие уведомления об итогах операций.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

type LogNotifier struct{}

func (LogNotifier) Success(message string) {
	logger.Info("Board: Уведомление", zap.String("message", message))
}

func (LogNotifier) Failure(message string) {
	logger.Warn("Board: Уведомление об ошибке", zap.String("message", message))
}

const (
	msgTaskCreated    = "Задача успешно создана."
	msgTaskUpdated    = "Задача успешно обновлена."
	msgTaskDeleted    = "Задача успешно удалена."
	msgStatusChanged  = "Статус задачи изменён."
	msgStatusFailed   = "Ошибка изменения статуса задачи"
	msgFetchFailed    = "Ошибка получения данных"
	msgCreateFallback = "Ошибка создания задачи"
	msgUpdateFallback = "Ошибка обновления задачи"
	msgDeleteFallback = "Ошибка удаления задачи"
)

// failureMessage возвращает текст ошибки или запасной текст для пустого сообщения.
func failureMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
