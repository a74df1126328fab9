package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notification"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// ServiceCatalog интерфейс каталога услуг
type ServiceCatalog interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// StaffRepository интерфейс репозитория мастеров
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByStaffAndDate(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// CustomerDirectory интерфейс справочника клиентов
type CustomerDirectory interface {
	FindOrCreateByPhone(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
}

// ConstraintLoader загружает ограничения мастера на дату
type ConstraintLoader interface {
	Load(ctx context.Context, staff *domain.StaffMember, date time.Time) (*scheduling.DayConstraints, error)
}

// Dispatcher ранжирует мастеров для записи без предпочтений
type Dispatcher interface {
	Rank(ctx context.Context, req scheduling.DispatchRequest) ([]scheduling.Candidate, error)
}

// NotificationGateway отправляет подтверждение в фоне, не блокируя запрос
type NotificationGateway interface {
	SendBookingConfirmation(ctx context.Context, msg notification.BookingConfirmation)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики исходов бронирования
type Metrics interface {
	IncBooking(outcome string)
	IncDispatchStage(stage string)
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
