package chat_message

import (
	"context"

	chatBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/chat_booking"
)

type ChatUseCase interface {
	Execute(ctx context.Context, req *chatBooking.Request) (*chatBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
