package middleware

import (
	"context"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HTTPMetrics метрики HTTP-запросов
type HTTPMetrics interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
	InFlight() func()
}

// Counter атомарный счетчик с фиксированным окном
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
