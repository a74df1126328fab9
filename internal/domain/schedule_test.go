package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

func TestLeaveRecord_CoversWholeDay(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, moscow)

	fullDay := &LeaveRecord{
		FullDay:   true,
		StartDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, fullDay.CoversWholeDay(day), "calendar dates compare regardless of zone")
	assert.True(t, fullDay.CoversWholeDay(day.AddDate(0, 0, 2)))
	assert.False(t, fullDay.CoversWholeDay(day.AddDate(0, 0, 3)))
	assert.False(t, fullDay.CoversWholeDay(day.AddDate(0, 0, -1)))

	from := day.Add(-time.Hour)
	to := day.AddDate(0, 0, 1)
	spanning := &LeaveRecord{StartAt: &from, EndAt: &to}
	assert.True(t, spanning.CoversWholeDay(day))

	shortTo := day.Add(20 * time.Hour)
	partial := &LeaveRecord{StartAt: &from, EndAt: &shortTo}
	assert.False(t, partial.CoversWholeDay(day))
}

func TestLeaveRecord_PartialWindow(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	from := day.Add(13*time.Hour + 30*time.Minute)
	to := day.Add(15 * time.Hour)
	l := &LeaveRecord{StartAt: &from, EndAt: &to}

	start, end, ok := l.PartialWindow(day)
	assert.True(t, ok)
	assert.Equal(t, types.NewTimeOfDay(13, 30), start)
	assert.Equal(t, types.NewTimeOfDay(15, 0), end)

	_, _, ok = l.PartialWindow(day.AddDate(0, 0, 1))
	assert.False(t, ok, "leave on another date does not touch this one")

	overnightTo := day.AddDate(0, 0, 1).Add(2 * time.Hour)
	overnight := &LeaveRecord{StartAt: &from, EndAt: &overnightTo}
	start, end, ok = overnight.PartialWindow(day.AddDate(0, 0, 1))
	assert.True(t, ok)
	assert.Equal(t, types.TimeOfDay(0), start)
	assert.Equal(t, types.NewTimeOfDay(2, 0), end)

	full := &LeaveRecord{FullDay: true, StartDate: day, EndDate: day}
	_, _, ok = full.PartialWindow(day)
	assert.False(t, ok)
}

func TestStaffMember_Skills(t *testing.T) {
	s := &StaffMember{
		Role:        RoleStylist,
		Skills:      []int64{1, 3},
		WorkingDays: []time.Weekday{time.Monday},
	}

	assert.True(t, s.HasSkill(3))
	assert.False(t, s.HasSkill(2))
	assert.True(t, s.WorksOn(time.Monday))
	assert.False(t, s.WorksOn(time.Sunday))
	assert.True(t, s.Role.IsBookable())
	assert.False(t, RoleReceptionist.IsBookable())
}

func TestAppointment_EndTime(t *testing.T) {
	a := &Appointment{StartTime: types.NewTimeOfDay(10, 30), DurationMinutes: 45, Status: StatusPending}

	assert.Equal(t, types.NewTimeOfDay(11, 15), a.EndTime())
	assert.False(t, a.IsCancelled())

	a.Status = StatusCancelled
	assert.True(t, a.IsCancelled())
}

func TestAppointmentStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusNoShow))
	assert.True(t, StatusInService.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusPending))
	assert.False(t, StatusPending.CanTransitionTo(StatusCompleted))

	assert.True(t, (&Appointment{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Appointment{Status: StatusInService}).CanBeCancelled())

	assert.True(t, StatusNoShow.IsValid())
	assert.False(t, AppointmentStatus("cancelled_by_user").IsValid())
}
