package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	staffRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var monday = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type inlineTx struct{ calls int }

func (tx *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

type fakeRepo struct {
	items map[int64]*domain.Appointment
	err   error
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) GetByStaffAndDate(_ context.Context, f domain.AppointmentFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.items {
		if a.StaffID == f.StaffID && a.Date.Equal(f.Date) && (f.IncludeCancelled || !a.IsCancelled()) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetByCustomerID(_ context.Context, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.items {
		if a.CustomerID == customerID && (status == nil || a.Status == *status) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	r.items[id].Status = status
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id int64, reason string) error {
	a := r.items[id]
	a.Status = domain.StatusCancelled
	a.CancellationReason = &reason
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	a.CancelledAt = &at
	return nil
}

type fakeStaff struct{}

func (fakeStaff) GetByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	if id != 3 {
		return nil, staffRepo.ErrStaffNotFound
	}
	return &domain.StaffMember{ID: 3, Name: "Bob"}, nil
}

func newService() (*Service, *fakeRepo, *inlineTx) {
	repo := &fakeRepo{items: map[int64]*domain.Appointment{
		1: {ID: 1, StaffID: 3, CustomerID: 7, Date: monday, StartTime: types.NewTimeOfDay(10, 0), DurationMinutes: 60, Status: domain.StatusPending},
		2: {ID: 2, StaffID: 3, CustomerID: 7, Date: monday, StartTime: types.NewTimeOfDay(12, 0), DurationMinutes: 30, Status: domain.StatusInService},
		3: {ID: 3, StaffID: 3, CustomerID: 8, Date: monday, StartTime: types.NewTimeOfDay(14, 0), DurationMinutes: 30, Status: domain.StatusCancelled},
	}}
	tx := &inlineTx{}
	return NewService(repo, fakeStaff{}, tx, nopLogger{}), repo, tx
}

func TestCancel(t *testing.T) {
	svc, repo, tx := newService()

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelRequest{Reason: "  sick  "})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "sick", *resp.CancellationReason)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, "2026-10-18T12:00:00Z", *resp.CancelledAt)
	assert.Equal(t, domain.StatusCancelled, repo.items[1].Status)

	_, err = svc.Cancel(context.Background(), 2, &models.CancelRequest{})
	assert.ErrorIs(t, err, ErrCannotCancel)

	_, err = svc.Cancel(context.Background(), 99, &models.CancelRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "11:00", resp.EndTime)

	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{Status: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetStaffDay(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.GetStaffDay(context.Background(), &models.GetStaffDayRequest{StaffID: 3, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, "Bob", resp.StaffName)
	assert.Len(t, resp.Appointments, 2)

	resp, err = svc.GetStaffDay(context.Background(), &models.GetStaffDayRequest{StaffID: 3, Date: monday, IncludeCancelled: true})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 3)

	_, err = svc.GetStaffDay(context.Background(), &models.GetStaffDayRequest{StaffID: 4, Date: monday})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestGetCustomerAppointments(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{CustomerID: 7})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 2)

	resp, err = svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{CustomerID: 7, Status: ptr.Ptr("pending")})
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	_, err = svc.GetCustomerAppointments(context.Background(), &models.GetCustomerAppointmentsRequest{CustomerID: 7, Status: ptr.Ptr("bogus")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetByID_RepositoryFailure(t *testing.T) {
	svc, repo, _ := newService()
	repo.err = errors.New("connection reset")

	_, err := svc.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInternal)
}
