package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	// ErrNoAvailability возвращается, когда ни один мастер не может принять запись.
	// Конкретный этап отсева хранится в *NoAvailabilityError
	ErrNoAvailability = errors.New("scheduling: no availability")

	// ErrInvalidDuration возвращается при неположительной длительности услуги
	ErrInvalidDuration = errors.New("scheduling: duration must be positive")

	// ErrInvalidStep возвращается при неположительном шаге сетки
	ErrInvalidStep = errors.New("scheduling: slot step must be positive")

	// ErrLoadConstraints возвращается при ошибке чтения источников ограничений
	ErrLoadConstraints = errors.New("scheduling: failed to load constraints")
)

// Stage этап диспетчеризации, на котором отсеялись все кандидаты
type Stage string

const (
	StageNotQualified Stage = "not_qualified"
	StageNotWorking   Stage = "not_working"
	StageOnLeave      Stage = "on_leave"
	StageNoFreeWindow Stage = "no_free_window"
)

// NoAvailabilityError типизированная ошибка диспетчера
type NoAvailabilityError struct {
	Stage     Stage
	ServiceID int64
	Date      time.Time
	StartTime types.TimeOfDay
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("%v: stage=%s service=%d date=%s time=%s",
		ErrNoAvailability, e.Stage, e.ServiceID, e.Date.Format(domain.DateFormat), e.StartTime)
}

// Is позволяет сравнивать через errors.Is(err, ErrNoAvailability)
func (e *NoAvailabilityError) Is(target error) bool {
	return target == ErrNoAvailability
}

// StageOf извлекает этап из ошибки, если это NoAvailabilityError
func StageOf(err error) (Stage, bool) {
	var naErr *NoAvailabilityError
	if errors.As(err, &naErr) {
		return naErr.Stage, true
	}
	return "", false
}
