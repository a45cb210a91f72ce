package logger

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger остаётся no-op до вызова Init, чтобы пакеты можно было использовать в тестах.
var Logger = zap.NewNop()

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

func Init(development bool) error {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		level.SetLevel(zap.DebugLevel)
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = level
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")

	built, err := config.Build()
	if err != nil {
		return err
	}
	Logger = built
	return nil
}

// SetLevel меняет уровень уже созданного логгера ("debug", "info", "warn", "error").
func SetLevel(lvl string) error {
	if lvl == "" {
		return nil
	}
	parsed, err := zapcore.ParseLevel(lvl)
	if err != nil {
		return err
	}
	level.SetLevel(parsed)
	return nil
}

func Sync() {
	_ = Logger.Sync()
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Log(lvl zapcore.Level, msg string, fields ...zap.Field) {
	Logger.Log(lvl, msg, fields...)
}

func HttpRequestInfo(r *http.Request, msg string, fields ...zap.Field) {
	allFields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("query", r.URL.RawQuery),
		zap.String("client_ip", r.RemoteAddr),
	}
	allFields = append(allFields, fields...)
	Logger.Info(msg, allFields...)
}

// HttpClientInfo пишет итог исходящего запроса к API.
func HttpClientInfo(method, url string, status int, elapsed time.Duration, fields ...zap.Field) {
	allFields := []zap.Field{
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("http_status", status),
		zap.Duration("ms", elapsed),
	}
	allFields = append(allFields, fields...)

	lvl := zap.DebugLevel
	if status >= 400 || status == 0 {
		lvl = zap.WarnLevel
	}
	Logger.Log(lvl, "HTTP_CLIENT: Запрос завершён", allFields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Logger.Error(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}
