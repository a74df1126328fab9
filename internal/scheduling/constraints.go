package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// DayConstraints все ограничения мастера на конкретную дату, приведенные к минутам дня
type DayConstraints struct {
	Staff *domain.StaffMember
	Date  time.Time

	Working      bool                // дата попадает на рабочий день недели
	Hours        Interval            // рабочие часы
	FullDayLeave *domain.LeaveRecord // отпуск на весь день, если есть

	Leaves []Interval // частичные отпуска, обрезанные по дате
	Breaks []Interval
	Booked []Interval // окна неотмененных записей

	AppointmentCount int
}

// BuildDayConstraints собирает ограничения из сырых данных источников
func BuildDayConstraints(
	staff *domain.StaffMember,
	date time.Time,
	breaks []*domain.Break,
	leaves []*domain.LeaveRecord,
	appointments []*domain.Appointment,
) *DayConstraints {
	day := domain.DateOnly(date)

	dc := &DayConstraints{
		Staff:   staff,
		Date:    day,
		Working: staff.WorksOn(day.Weekday()) && !staff.WorkingHours.IsEmpty(),
		Hours:   Interval{Start: staff.WorkingHours.Start, End: staff.WorkingHours.End},
	}

	for _, b := range breaks {
		iv := Interval{Start: b.Start, End: b.End}
		if iv.IsEmpty() {
			continue
		}
		dc.Breaks = append(dc.Breaks, iv)
	}

	for _, l := range leaves {
		if l.CoversWholeDay(day) {
			if dc.FullDayLeave == nil {
				dc.FullDayLeave = l
			}
			continue
		}
		if start, end, ok := l.PartialWindow(day); ok {
			dc.Leaves = append(dc.Leaves, Interval{Start: start, End: end})
		}
	}

	dc.setAppointments(appointments)
	return dc
}

// WithAppointments возвращает копию ограничений с обновленным списком записей.
// Используется для повторной проверки внутри транзакции
func (dc *DayConstraints) WithAppointments(appointments []*domain.Appointment) *DayConstraints {
	cp := *dc
	cp.Booked = nil
	cp.AppointmentCount = 0
	cp.setAppointments(appointments)
	return &cp
}

func (dc *DayConstraints) setAppointments(appointments []*domain.Appointment) {
	for _, a := range appointments {
		if a.IsCancelled() || a.DurationMinutes <= 0 {
			continue
		}
		dc.Booked = append(dc.Booked, NewInterval(a.StartTime, a.DurationMinutes))
		dc.AppointmentCount++
	}
	sort.Slice(dc.Booked, func(i, j int) bool {
		return dc.Booked[i].Start < dc.Booked[j].Start
	})
}

// DayReason причина блокировки всего дня, если она есть
func (dc *DayConstraints) DayReason() domain.SlotReason {
	if !dc.Working {
		return domain.ReasonNotWorking
	}
	if dc.FullDayLeave != nil {
		return domain.ReasonOnLeave
	}
	return domain.ReasonNone
}

// conflictReason проверяет окно против отпусков, перерывов и записей.
// Приоритет причин: On leave > Break > Booked
func (dc *DayConstraints) conflictReason(window Interval) domain.SlotReason {
	switch {
	case overlapsAny(window, dc.Leaves):
		return domain.ReasonOnLeave
	case overlapsAny(window, dc.Breaks):
		return domain.ReasonBreak
	case overlapsAny(window, dc.Booked):
		return domain.ReasonBooked
	}
	return domain.ReasonNone
}

// CheckWindow проверяет ровно одно окно. Пустая причина означает, что окно свободно
func (dc *DayConstraints) CheckWindow(window Interval) domain.SlotReason {
	if reason := dc.DayReason(); reason != domain.ReasonNone {
		return reason
	}
	if window.IsEmpty() || !dc.Hours.Contains(window) {
		return domain.ReasonOutsideHours
	}
	return dc.conflictReason(window)
}

// Loader читает источники ограничений параллельно
type Loader struct {
	staff        StaffSource
	breaks       BreakSource
	leaves       LeaveSource
	appointments AppointmentSource
}

// NewLoader создает новый загрузчик ограничений
func NewLoader(staff StaffSource, breaks BreakSource, leaves LeaveSource, appointments AppointmentSource) *Loader {
	return &Loader{
		staff:        staff,
		breaks:       breaks,
		leaves:       leaves,
		appointments: appointments,
	}
}

// LoadByID читает мастера и три источника ограничений одновременно
func (l *Loader) LoadByID(ctx context.Context, staffID int64, date time.Time) (*DayConstraints, error) {
	var staff *domain.StaffMember

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := l.staff.GetByID(gctx, staffID)
		if err != nil {
			return err
		}
		staff = s
		return nil
	})

	breaks, leaves, appointments := l.loadSources(g, gctx, staffID, date)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildDayConstraints(staff, date, *breaks, *leaves, *appointments), nil
}

// Load читает ограничения для уже известного мастера
func (l *Loader) Load(ctx context.Context, staff *domain.StaffMember, date time.Time) (*DayConstraints, error) {
	g, gctx := errgroup.WithContext(ctx)
	breaks, leaves, appointments := l.loadSources(g, gctx, staff.ID, date)

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return BuildDayConstraints(staff, date, *breaks, *leaves, *appointments), nil
}

// LoadMany загружает ограничения для списка мастеров, сохраняя порядок
func (l *Loader) LoadMany(ctx context.Context, staff []*domain.StaffMember, date time.Time) ([]*DayConstraints, error) {
	result := make([]*DayConstraints, len(staff))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, s := range staff {
		g.Go(func() error {
			dc, err := l.Load(gctx, s, date)
			if err != nil {
				return fmt.Errorf("staff id=%d: %w", s.ID, err)
			}
			result[i] = dc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

const maxParallelLoads = 8

func (l *Loader) loadSources(
	g *errgroup.Group,
	ctx context.Context,
	staffID int64,
	date time.Time,
) (*[]*domain.Break, *[]*domain.LeaveRecord, *[]*domain.Appointment) {
	var (
		breaks       []*domain.Break
		leaves       []*domain.LeaveRecord
		appointments []*domain.Appointment
	)

	g.Go(func() error {
		res, err := l.breaks.GetBreaks(ctx, staffID)
		if err != nil {
			return fmt.Errorf("%w: breaks: %v", ErrLoadConstraints, err)
		}
		breaks = res
		return nil
	})
	g.Go(func() error {
		res, err := l.leaves.GetLeaves(ctx, staffID, date)
		if err != nil {
			return fmt.Errorf("%w: leaves: %v", ErrLoadConstraints, err)
		}
		leaves = res
		return nil
	})
	g.Go(func() error {
		res, err := l.appointments.GetByStaffAndDate(ctx, domain.AppointmentFilter{
			StaffID: staffID,
			Date:    domain.DateOnly(date),
		})
		if err != nil {
			return fmt.Errorf("%w: appointments: %v", ErrLoadConstraints, err)
		}
		appointments = res
		return nil
	})

	return &breaks, &leaves, &appointments
}
