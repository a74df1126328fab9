package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var errStaffNotFound = errors.New("staff not found")

// monday 2026-10-19
var monday = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

type fakeSources struct {
	mu           sync.Mutex
	staff        map[int64]*domain.StaffMember
	breaks       map[int64][]*domain.Break
	leaves       map[int64][]*domain.LeaveRecord
	appointments map[int64][]*domain.Appointment

	breaksErr error
	calls     int
}

func newFakeSources() *fakeSources {
	return &fakeSources{
		staff:        map[int64]*domain.StaffMember{},
		breaks:       map[int64][]*domain.Break{},
		leaves:       map[int64][]*domain.LeaveRecord{},
		appointments: map[int64][]*domain.Appointment{},
	}
}

func (f *fakeSources) GetByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	s, ok := f.staff[id]
	if !ok {
		return nil, errStaffNotFound
	}
	return s, nil
}

func (f *fakeSources) ListBookable(_ context.Context, locationID *int64) ([]*domain.StaffMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*domain.StaffMember
	for _, s := range f.staff {
		if !s.Role.IsBookable() {
			continue
		}
		if locationID != nil && (s.LocationID == nil || *s.LocationID != *locationID) {
			continue
		}
		res = append(res, s)
	}
	return res, nil
}

func (f *fakeSources) GetBreaks(_ context.Context, staffID int64) ([]*domain.Break, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.breaksErr != nil {
		return nil, f.breaksErr
	}
	return f.breaks[staffID], nil
}

func (f *fakeSources) GetLeaves(_ context.Context, staffID int64, _ time.Time) ([]*domain.LeaveRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leaves[staffID], nil
}

func (f *fakeSources) GetByStaffAndDate(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*domain.Appointment
	for _, a := range f.appointments[filter.StaffID] {
		if !a.Date.Equal(filter.Date) {
			continue
		}
		if a.IsCancelled() && !filter.IncludeCancelled {
			continue
		}
		res = append(res, a)
	}
	return res, nil
}

func (f *fakeSources) loader() *Loader {
	return NewLoader(f, f, f, f)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func tod(s string) types.TimeOfDay {
	return types.MustParseTimeOfDay(s)
}

func stylist(id int64, skills ...int64) *domain.StaffMember {
	return &domain.StaffMember{
		ID:       id,
		Name:     "stylist",
		Role:     domain.RoleStylist,
		IsActive: true,
		Skills:   skills,
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		WorkingHours: domain.WorkingHours{Start: tod("09:00"), End: tod("17:00")},
	}
}

func appt(staffID int64, date time.Time, start string, duration int, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		StaffID:         staffID,
		ServiceID:       1,
		Date:            date,
		StartTime:       tod(start),
		DurationMinutes: duration,
		Status:          status,
	}
}

func brk(staffID int64, start, end string) *domain.Break {
	return &domain.Break{StaffID: staffID, Start: tod(start), End: tod(end)}
}

func slotAt(slots []domain.TimeSlot, start string) (domain.TimeSlot, bool) {
	t := tod(start)
	for _, s := range slots {
		if s.StartTime == t {
			return s, true
		}
	}
	return domain.TimeSlot{}, false
}
