package scheduling

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Query параметры расчета доступности мастера на дату
type Query struct {
	StaffID         int64
	Date            time.Time
	DurationMinutes int
	StepMinutes     int
	// Now текущее время в часовом поясе салона. Нулевое значение отключает пометку Past
	Now time.Time
}

// DayAvailability результат расчета: упорядоченные кандидаты с причинами блокировки
type DayAvailability struct {
	Staff     *domain.StaffMember
	Date      time.Time
	Hours     Interval
	DayReason domain.SlotReason
	Slots     []domain.TimeSlot
}

// AvailableCount количество свободных кандидатов
func (a *DayAvailability) AvailableCount() int {
	count := 0
	for _, s := range a.Slots {
		if s.Available {
			count++
		}
	}
	return count
}

// Compute рассчитывает кандидатов по уже загруженным ограничениям.
//
// Алгоритм:
// 1. Нерабочий день недели: слотов нет, причина дня Not working
// 2. Кандидаты: кратные шагу минуты от полуночи внутри рабочих часов, start+duration <= end
// 3. Отпуск на весь день блокирует всех кандидатов с причиной On leave
// 4. Остальные окна проверяются на пересечение с отпусками, перерывами и записями
// 5. Для сегодняшней даты начавшиеся кандидаты помечаются Past
func Compute(dc *DayConstraints, durationMinutes, stepMinutes int, now time.Time) *DayAvailability {
	result := &DayAvailability{
		Staff:     dc.Staff,
		Date:      dc.Date,
		Hours:     dc.Hours,
		DayReason: dc.DayReason(),
		Slots:     []domain.TimeSlot{},
	}

	if !dc.Working || durationMinutes <= 0 || stepMinutes <= 0 {
		return result
	}

	pastLimit := types.TimeOfDay(-1)
	if !now.IsZero() {
		nowDay := domain.DateOnly(now)
		switch {
		case dc.Date.Before(nowDay):
			pastLimit = types.MinutesPerDay
		case dc.Date.Equal(nowDay):
			pastLimit = types.TimeOfDayFromTime(now)
		}
	}

	for start := alignUp(dc.Hours.Start, stepMinutes); start.Add(durationMinutes) <= dc.Hours.End; start = start.Add(stepMinutes) {
		slot := domain.TimeSlot{StartTime: start}

		switch {
		case dc.FullDayLeave != nil:
			slot.Reason = domain.ReasonOnLeave
		default:
			slot.Reason = dc.conflictReason(NewInterval(start, durationMinutes))
			if slot.Reason == domain.ReasonNone && start < pastLimit {
				slot.Reason = domain.ReasonPast
			}
		}

		slot.Available = slot.Reason == domain.ReasonNone
		result.Slots = append(result.Slots, slot)
	}

	return result
}

// Calculator рассчитывает доступность мастера, загружая ограничения из источников
type Calculator struct {
	loader *Loader
}

// NewCalculator создает новый калькулятор доступности
func NewCalculator(loader *Loader) *Calculator {
	return &Calculator{loader: loader}
}

// Calculate загружает ограничения мастера на дату и рассчитывает кандидатов
func (c *Calculator) Calculate(ctx context.Context, q Query) (*DayAvailability, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	dc, err := c.loader.LoadByID(ctx, q.StaffID, q.Date)
	if err != nil {
		return nil, err
	}

	return Compute(dc, q.DurationMinutes, q.StepMinutes, q.Now), nil
}

// CalculateFor рассчитывает кандидатов для уже загруженного мастера
func (c *Calculator) CalculateFor(ctx context.Context, staff *domain.StaffMember, q Query) (*DayAvailability, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	dc, err := c.loader.Load(ctx, staff, q.Date)
	if err != nil {
		return nil, err
	}

	return Compute(dc, q.DurationMinutes, q.StepMinutes, q.Now), nil
}

// CheckWindow проверяет ровно одно окно [start, start+duration) мастера на дату.
// Возвращает причину блокировки (пустая, если окно свободно) и загруженные ограничения
func (c *Calculator) CheckWindow(
	ctx context.Context,
	staffID int64,
	date time.Time,
	start types.TimeOfDay,
	durationMinutes int,
) (domain.SlotReason, *DayConstraints, error) {
	if durationMinutes <= 0 {
		return domain.ReasonNone, nil, ErrInvalidDuration
	}

	dc, err := c.loader.LoadByID(ctx, staffID, date)
	if err != nil {
		return domain.ReasonNone, nil, err
	}

	return dc.CheckWindow(NewInterval(start, durationMinutes)), dc, nil
}

func validateQuery(q Query) error {
	if q.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if q.StepMinutes <= 0 {
		return ErrInvalidStep
	}
	return nil
}
