package notification

import "context"

// Channel канал доставки подтверждения о записи
type Channel interface {
	Name() string
	SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics учет результатов доставки (реализуется pkg/metrics)
type Metrics interface {
	IncNotification(channel, result string)
}
