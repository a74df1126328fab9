package domain

// Default configuration values
const (
	DefaultSlotStepMinutes       = 30
	DefaultBookingTimeoutSeconds = 10
	DefaultDayStart              = "08:00"
	DefaultDayEnd                = "21:00"
	DefaultPhoneRegion           = "US"
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxNotesLength            = 500
	MaxCustomerNameLength     = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// NoPreference sentinel value of staffId in a booking request:
// the dispatcher chooses the staff member
const NoPreference = "NO_PREFERENCE"

// ActiveStatuses список статусов, которые занимают окно мастера.
// Используется для фильтрации при проверке пересечений
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusInService,
	StatusCompleted,
	StatusNoShow,
}
