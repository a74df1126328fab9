package get_qualified_staff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var monday = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type store struct {
	services     map[int64]*domain.Service
	staff        []*domain.StaffMember
	leaves       map[int64][]*domain.LeaveRecord
	appointments map[int64][]*domain.Appointment
	listErr      error
}

func (s *store) GetService(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

type catalog struct{ *store }

func (c catalog) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	return c.GetService(ctx, id)
}

func (s *store) GetByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	for _, m := range s.staff {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, errors.New("not found")
}

func (s *store) ListBookable(_ context.Context, locationID *int64) ([]*domain.StaffMember, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var result []*domain.StaffMember
	for _, m := range s.staff {
		if !m.Role.IsBookable() {
			continue
		}
		if locationID != nil && (m.LocationID == nil || *m.LocationID != *locationID) {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

func (s *store) GetBreaks(context.Context, int64) ([]*domain.Break, error) { return nil, nil }

func (s *store) GetLeaves(_ context.Context, staffID int64, _ time.Time) ([]*domain.LeaveRecord, error) {
	return s.leaves[staffID], nil
}

func (s *store) GetByStaffAndDate(_ context.Context, f domain.AppointmentFilter) ([]*domain.Appointment, error) {
	return s.appointments[f.StaffID], nil
}

func tod(v string) types.TimeOfDay { return types.MustParseTimeOfDay(v) }

func member(id int64, skills ...int64) *domain.StaffMember {
	return &domain.StaffMember{
		ID: id, Name: "stylist", Role: domain.RoleStylist, IsActive: true, Skills: skills,
		WorkingDays:  []time.Weekday{time.Monday},
		WorkingHours: domain.WorkingHours{Start: tod("09:00"), End: tod("12:00")},
	}
}

func newStore() *store {
	return &store{
		services: map[int64]*domain.Service{
			10: {ID: 10, Name: "Haircut", DurationMinutes: 60, Price: decimal.NewFromInt(25), IsActive: true},
			11: {ID: 11, Name: "Retired", DurationMinutes: 30, IsActive: false},
		},
		leaves:       map[int64][]*domain.LeaveRecord{},
		appointments: map[int64][]*domain.Appointment{},
	}
}

func newUseCase(s *store) *UseCase {
	uc := NewUseCase(catalog{s}, s, scheduling.NewLoader(s, s, s, s), nopLogger{}, Config{StepMinutes: 30})
	uc.timeProvider = fixedTime{t: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_QualifiedStaffWithSlots(t *testing.T) {
	s := newStore()
	receptionist := member(1, 10)
	receptionist.Role = domain.RoleReceptionist
	s.staff = []*domain.StaffMember{member(5, 10), receptionist, member(3, 11), member(2, 10, 11)}
	s.appointments[2] = []*domain.Appointment{
		{StaffID: 2, Date: monday, StartTime: tod("09:00"), DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	s.leaves[5] = []*domain.LeaveRecord{
		{StaffID: 5, Kind: domain.LeaveSick, FullDay: true, StartDate: monday, EndDate: monday},
	}

	resp, err := newUseCase(s).Execute(context.Background(), &Request{ServiceID: 10, Date: monday})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.DurationMinutes, "defaults to the service duration")
	require.Len(t, resp.Staff, 2)
	assert.Equal(t, int64(2), resp.Staff[0].StaffID)
	assert.Equal(t, int64(5), resp.Staff[1].StaffID)

	// сетка 09:00-12:00 с шагом 30; 11:30 не вмещает 60 минут
	require.Len(t, resp.Staff[0].Slots, 6)
	assert.Equal(t, domain.ReasonOutsideHours, resp.Staff[0].Slots[5].Reason)
	assert.Equal(t, 3, resp.Staff[0].AvailableCount)
	assert.Equal(t, domain.ReasonBooked, resp.Staff[0].Slots[0].Reason)
	assert.Equal(t, []int64{10, 11}, resp.Staff[0].Skills)

	assert.Equal(t, domain.ReasonOnLeave, resp.Staff[1].DayReason)
	assert.Zero(t, resp.Staff[1].AvailableCount)
}

func TestExecute_LocationAndDuration(t *testing.T) {
	s := newStore()
	a := member(1, 10)
	a.LocationID = ptr.Ptr(int64(100))
	b := member(2, 10)
	b.LocationID = ptr.Ptr(int64(200))
	s.staff = []*domain.StaffMember{a, b}

	resp, err := newUseCase(s).Execute(context.Background(), &Request{
		ServiceID: 10, Date: monday, DurationMinutes: 30, LocationID: ptr.Ptr(int64(200)),
	})
	require.NoError(t, err)
	require.Len(t, resp.Staff, 1)
	assert.Equal(t, int64(2), resp.Staff[0].StaffID)
	assert.Len(t, resp.Staff[0].Slots, 6)
}

func TestExecute_NobodyQualified(t *testing.T) {
	s := newStore()
	s.staff = []*domain.StaffMember{member(1, 11)}

	resp, err := newUseCase(s).Execute(context.Background(), &Request{ServiceID: 10, Date: monday})
	require.NoError(t, err)
	assert.Empty(t, resp.Staff)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		listErr error
		wantErr error
	}{
		{"unknown service", &Request{ServiceID: 99, Date: monday}, nil, ErrServiceNotFound},
		{"inactive service", &Request{ServiceID: 11, Date: monday}, nil, ErrServiceInactive},
		{"missing date", &Request{ServiceID: 10}, nil, ErrInvalidInput},
		{"bad duration", &Request{ServiceID: 10, Date: monday, DurationMinutes: 1}, nil, ErrInvalidInput},
		{"staff list fails", &Request{ServiceID: 10, Date: monday}, errors.New("db down"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			s.listErr = tt.listErr
			_, err := newUseCase(s).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
