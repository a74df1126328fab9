package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ScheduleRepository интерфейс репозитория перерывов и отсутствий
type ScheduleRepository interface {
	GetBreaks(ctx context.Context, staffID int64) ([]*domain.Break, error)
	CreateBreak(ctx context.Context, b *domain.Break) (*domain.Break, error)
	DeleteBreak(ctx context.Context, staffID, breakID int64) error
	ListLeaves(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.LeaveRecord, error)
	CreateLeave(ctx context.Context, l *domain.LeaveRecord) (*domain.LeaveRecord, error)
	DeleteLeave(ctx context.Context, staffID, leaveID int64) error
}

// StaffRepository интерфейс репозитория мастеров
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
