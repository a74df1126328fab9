package domain

import "time"

// StaffRole represents the role of a staff member
type StaffRole string

const (
	RoleStylist      StaffRole = "stylist"
	RoleReceptionist StaffRole = "receptionist"
	RoleManager      StaffRole = "manager"
)

// IsBookable returns true if customers can book appointments with this role
func (r StaffRole) IsBookable() bool {
	return r == RoleStylist
}

// StaffMember represents a salon employee that can be assigned to appointments
type StaffMember struct {
	ID                   int64
	Name                 string
	Role                 StaffRole
	IsActive             bool
	EmergencyUnavailable bool
	LocationID           *int64
	Skills               []int64 // IDs of services this member can perform
	WorkingDays          []time.Weekday
	WorkingHours         WorkingHours
}

// HasSkill returns true if the member can perform the service
func (s *StaffMember) HasSkill(serviceID int64) bool {
	for _, id := range s.Skills {
		if id == serviceID {
			return true
		}
	}
	return false
}

// WorksOn returns true if the weekday is one of the member's working days
func (s *StaffMember) WorksOn(day time.Weekday) bool {
	for _, d := range s.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}
