package scheduling

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// StaffSource источник данных о мастерах (рабочие часы, дни, навыки)
type StaffSource interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
	// ListBookable возвращает всех мастеров с бронируемой ролью, опционально по филиалу
	ListBookable(ctx context.Context, locationID *int64) ([]*domain.StaffMember, error)
}

// BreakSource источник ежедневных перерывов мастера
type BreakSource interface {
	GetBreaks(ctx context.Context, staffID int64) ([]*domain.Break, error)
}

// LeaveSource источник отпусков и периодов недоступности, затрагивающих дату
type LeaveSource interface {
	GetLeaves(ctx context.Context, staffID int64, date time.Time) ([]*domain.LeaveRecord, error)
}

// AppointmentSource источник существующих записей мастера на дату
type AppointmentSource interface {
	GetByStaffAndDate(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
