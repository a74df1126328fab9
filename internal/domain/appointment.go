package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusInService AppointmentStatus = "in_service"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// transitions допустимые переходы статусов записи
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusInService, StatusCancelled, StatusNoShow},
	StatusInService: {StatusCompleted},
}

// IsValid returns true if the status is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInService, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo returns true if the status can be changed to next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment represents a booked service with a staff member
type Appointment struct {
	ID              int64
	StaffID         int64
	ServiceID       int64
	CustomerID      int64
	Date            time.Time
	StartTime       types.TimeOfDay
	DurationMinutes int // copied from the service at booking time
	Status          AppointmentStatus
	Notes           *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the appointment was cancelled.
// Cancelled appointments never block a window.
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment has not started yet
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// EndTime returns the exclusive end of the appointment window
func (a *Appointment) EndTime() types.TimeOfDay {
	return a.StartTime.Add(a.DurationMinutes)
}

// AppointmentFilter фильтр для выборки записей мастера
type AppointmentFilter struct {
	StaffID          int64     // Обязательный параметр
	Date             time.Time // Дата (без времени)
	IncludeCancelled bool      // Включать ли отмененные записи
}
