package domain

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// SlotReason explains why a time slot cannot be booked
type SlotReason string

const (
	ReasonNone         SlotReason = ""
	ReasonOnLeave      SlotReason = "On leave"
	ReasonBreak        SlotReason = "Break"
	ReasonBooked       SlotReason = "Booked"
	ReasonOutsideHours SlotReason = "Outside hours"
	ReasonNotWorking   SlotReason = "Not working"
	ReasonPast         SlotReason = "Past"
)

// TimeSlot represents a candidate start time for a booking
type TimeSlot struct {
	StartTime types.TimeOfDay
	Available bool
	Reason    SlotReason
}

// IsBlocked returns true if the slot cannot be booked
func (s *TimeSlot) IsBlocked() bool {
	return !s.Available
}
