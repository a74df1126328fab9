package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DispatchRequest запрос на автоматический выбор мастера
type DispatchRequest struct {
	ServiceID       int64
	Date            time.Time
	StartTime       types.TimeOfDay
	DurationMinutes int
	LocationID      *int64 // опционально ограничивает выбор филиалом
}

// Candidate мастер, способный принять запись, вместе с его загрузкой на дату
type Candidate struct {
	Staff       *domain.StaffMember
	Constraints *DayConstraints
}

// AppointmentCount количество неотмененных записей мастера на дату
func (c Candidate) AppointmentCount() int {
	return c.Constraints.AppointmentCount
}

// Dispatcher выбирает наименее загруженного мастера для записи без предпочтений
type Dispatcher struct {
	staff  StaffSource
	loader *Loader
	logger Logger
}

// NewDispatcher создает новый диспетчер
func NewDispatcher(staff StaffSource, loader *Loader, logger Logger) *Dispatcher {
	return &Dispatcher{
		staff:  staff,
		loader: loader,
		logger: logger,
	}
}

// Select возвращает лучшего кандидата
func (d *Dispatcher) Select(ctx context.Context, req DispatchRequest) (*Candidate, error) {
	candidates, err := d.Rank(ctx, req)
	if err != nil {
		return nil, err
	}
	return &candidates[0], nil
}

// Rank возвращает всех подходящих мастеров в порядке предпочтения.
//
// Этапы отсева:
// 1. Квалификация по услуге
// 2. Рабочий день недели
// 3. Отсутствие отпуска на весь день
// 4. Свободное окно [start, start+duration)
// Оставшиеся сортируются по количеству записей на дату, при равенстве по ID.
// Если на каком-то этапе никого не осталось, возвращается *NoAvailabilityError с этим этапом
func (d *Dispatcher) Rank(ctx context.Context, req DispatchRequest) ([]Candidate, error) {
	if req.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	fail := func(stage Stage) error {
		d.logger.Info("Dispatcher: no candidates at stage=%s, service=%d, date=%s, time=%s",
			stage, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)
		return &NoAvailabilityError{
			Stage:     stage,
			ServiceID: req.ServiceID,
			Date:      req.Date,
			StartTime: req.StartTime,
		}
	}

	all, err := d.staff.ListBookable(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	// 1. Квалификация
	qualified := FilterQualified(all, req.ServiceID)
	if len(qualified) == 0 {
		return nil, fail(StageNotQualified)
	}

	// 2. Рабочий день
	weekday := req.Date.Weekday()
	working := make([]*domain.StaffMember, 0, len(qualified))
	for _, s := range qualified {
		if s.WorksOn(weekday) {
			working = append(working, s)
		}
	}
	if len(working) == 0 {
		return nil, fail(StageNotWorking)
	}

	// Ограничения загружаются параллельно, ранжирование только после join
	constraints, err := d.loader.LoadMany(ctx, working, req.Date)
	if err != nil {
		return nil, err
	}

	// 3. Отпуск на весь день
	present := make([]*DayConstraints, 0, len(constraints))
	for _, dc := range constraints {
		if dc.FullDayLeave == nil {
			present = append(present, dc)
		}
	}
	if len(present) == 0 {
		return nil, fail(StageOnLeave)
	}

	// 4. Свободное окно
	window := NewInterval(req.StartTime, req.DurationMinutes)
	candidates := make([]Candidate, 0, len(present))
	for _, dc := range present {
		if dc.CheckWindow(window) == domain.ReasonNone {
			candidates = append(candidates, Candidate{Staff: dc.Staff, Constraints: dc})
		}
	}
	if len(candidates) == 0 {
		return nil, fail(StageNoFreeWindow)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i].AppointmentCount(), candidates[j].AppointmentCount()
		if ci != cj {
			return ci < cj
		}
		return candidates[i].Staff.ID < candidates[j].Staff.ID
	})

	d.logger.Info("Dispatcher: %d candidates for service=%d, best staff=%d (%d appointments)",
		len(candidates), req.ServiceID, candidates[0].Staff.ID, candidates[0].AppointmentCount())

	return candidates, nil
}
