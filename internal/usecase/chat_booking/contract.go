package chat_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/session"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/get_qualified_staff"
)

// SessionStore хранилище состояния диалогов
type SessionStore interface {
	Load(ctx context.Context, conversationID string) (*session.Session, error)
	Save(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, conversationID string) error
}

// ServiceCatalog интерфейс каталога услуг
type ServiceCatalog interface {
	ListActive(ctx context.Context) ([]*domain.Service, error)
}

// BookingCreator создает запись (use case create_booking)
type BookingCreator interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}

// SlotFinder сетка слотов выбранного мастера (use case get_available_slots)
type SlotFinder interface {
	Execute(ctx context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error)
}

// StaffFinder квалифицированные мастера со слотами (use case get_qualified_staff)
type StaffFinder interface {
	Execute(ctx context.Context, req *get_qualified_staff.Request) (*get_qualified_staff.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
