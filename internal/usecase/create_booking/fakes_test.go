package create_booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	staffRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notification"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// monday 2026-10-19, "сейчас" - суббота перед ним
var (
	monday = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type world struct {
	mu sync.Mutex

	services     map[int64]*domain.Service
	staff        map[int64]*domain.StaffMember
	appointments []*domain.Appointment
	customers    map[string]*domain.Customer
	nextID       int64

	// beforeCreate вызывается перед вставкой, имитирует конкурентную запись
	beforeCreate func(a *domain.Appointment)
	creates      int
}

func newWorld() *world {
	return &world{
		services:  map[int64]*domain.Service{},
		staff:     map[int64]*domain.StaffMember{},
		customers: map[string]*domain.Customer{},
	}
}

func (w *world) addService(id int64, duration int) {
	w.services[id] = &domain.Service{
		ID:              id,
		Name:            fmt.Sprintf("service-%d", id),
		DurationMinutes: duration,
		Price:           decimal.NewFromInt(30),
		IsActive:        true,
	}
}

func (w *world) addStylist(id int64, skills ...int64) *domain.StaffMember {
	s := &domain.StaffMember{
		ID:       id,
		Name:     fmt.Sprintf("stylist-%d", id),
		Role:     domain.RoleStylist,
		IsActive: true,
		Skills:   skills,
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		WorkingHours: domain.WorkingHours{Start: types.NewTimeOfDay(9, 0), End: types.NewTimeOfDay(17, 0)},
	}
	w.staff[id] = s
	return s
}

func (w *world) book(staffID int64, start string, duration int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	w.appointments = append(w.appointments, &domain.Appointment{
		ID:              w.nextID,
		StaffID:         staffID,
		Date:            monday,
		StartTime:       types.MustParseTimeOfDay(start),
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
	})
}

// ServiceCatalog

type servicesFake struct{ w *world }

func (f servicesFake) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := f.w.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s, nil
}

// StaffRepository + scheduling sources

type staffFake struct{ w *world }

func (f staffFake) GetByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	s, ok := f.w.staff[id]
	if !ok {
		return nil, staffRepo.ErrStaffNotFound
	}
	return s, nil
}

func (f staffFake) ListBookable(_ context.Context, _ *int64) ([]*domain.StaffMember, error) {
	res := make([]*domain.StaffMember, 0, len(f.w.staff))
	for _, s := range f.w.staff {
		res = append(res, s)
	}
	return res, nil
}

func (f staffFake) GetBreaks(context.Context, int64) ([]*domain.Break, error) { return nil, nil }

func (f staffFake) GetLeaves(context.Context, int64, time.Time) ([]*domain.LeaveRecord, error) {
	return nil, nil
}

// AppointmentRepository с проверкой пересечений, как у ограничения БД

type appointmentsFake struct{ w *world }

func (f appointmentsFake) GetByStaffAndDate(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var res []*domain.Appointment
	for _, a := range f.w.appointments {
		if a.StaffID == filter.StaffID && a.Date.Equal(domain.DateOnly(filter.Date)) && !a.IsCancelled() {
			cp := *a
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (f appointmentsFake) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if hook := f.w.beforeCreate; hook != nil {
		hook(a)
	}

	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	f.w.creates++

	window := scheduling.NewInterval(a.StartTime, a.DurationMinutes)
	for _, existing := range f.w.appointments {
		if existing.StaffID != a.StaffID || existing.IsCancelled() || !existing.Date.Equal(a.Date) {
			continue
		}
		if window.Overlaps(scheduling.NewInterval(existing.StartTime, existing.DurationMinutes)) {
			return nil, fmt.Errorf("%w: staff %d", appointmentRepo.ErrOverlap, a.StaffID)
		}
	}

	f.w.nextID++
	cp := *a
	cp.ID = f.w.nextID
	cp.CreatedAt = now
	f.w.appointments = append(f.w.appointments, &cp)
	return &cp, nil
}

// CustomerDirectory

type customersFake struct{ w *world }

func (f customersFake) FindOrCreateByPhone(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if existing, ok := f.w.customers[c.Phone]; ok {
		return existing, nil
	}
	cp := *c
	cp.ID = int64(len(f.w.customers) + 1)
	f.w.customers[c.Phone] = &cp
	return &cp, nil
}

type txFake struct{}

func (txFake) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type notifierFake struct {
	mu   sync.Mutex
	msgs []notification.BookingConfirmation
}

func (n *notifierFake) SendBookingConfirmation(_ context.Context, msg notification.BookingConfirmation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}

type metricsFake struct {
	mu       sync.Mutex
	bookings map[string]int
	stages   map[string]int
}

func newMetricsFake() *metricsFake {
	return &metricsFake{bookings: map[string]int{}, stages: map[string]int{}}
}

func (m *metricsFake) IncBooking(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[outcome]++
}

func (m *metricsFake) IncDispatchStage(stage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages[stage]++
}

type harness struct {
	w        *world
	uc       *UseCase
	notifier *notifierFake
	metrics  *metricsFake
}

func newHarness(w *world) *harness {
	staff := staffFake{w: w}
	appts := appointmentsFake{w: w}
	loader := scheduling.NewLoader(staff, staff, staff, appts)

	h := &harness{w: w, notifier: &notifierFake{}, metrics: newMetricsFake()}
	h.uc = NewUseCase(
		servicesFake{w: w},
		staff,
		appts,
		customersFake{w: w},
		loader,
		scheduling.NewDispatcher(staff, loader, nopLogger{}),
		h.notifier,
		txFake{},
		h.metrics,
		nopLogger{},
		Config{PhoneRegion: "US", Timeout: 5 * time.Second},
	)
	h.uc.timeProvider = fixedTime{t: now}
	return h
}

func request(serviceID int64, staffID *int64, start string) *Request {
	return &Request{
		Customer:     Customer{Name: "Ann", Phone: "(650) 253-0000"},
		ServiceID:    serviceID,
		StaffID:      staffID,
		NoPreference: staffID == nil,
		Date:         monday,
		StartTime:    types.MustParseTimeOfDay(start),
	}
}
