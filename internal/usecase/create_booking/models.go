package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Исходы бронирования для метрик
const (
	outcomeCreated        = "created"
	outcomeInvalid        = "invalid"
	outcomeNotFound       = "not_found"
	outcomeNotQualified   = "not_qualified"
	outcomeSlotTaken      = "slot_taken"
	outcomeNoAvailability = "no_availability"
	outcomeConflict       = "conflict"
	outcomeRetried        = "retried"
	outcomeError          = "error"
)

// Customer данные клиента из запроса
type Customer struct {
	Name   string
	Phone  string  // в любом формате, нормализуется в E.164
	Email  *string // опционально
	Gender *string // опционально
}

// Request модель запроса на создание записи.
// Задается ровно одно из StaffID и NoPreference
type Request struct {
	Customer     Customer
	ServiceID    int64
	StaffID      *int64          // конкретный мастер
	NoPreference bool            // мастера выбирает диспетчер
	Date         time.Time       // дата в часовом поясе салона (без времени)
	StartTime    types.TimeOfDay // время начала
	Notes        *string
	LocationID   *int64 // ограничивает выбор диспетчера филиалом
}

// ServiceInfo данные услуги в ответе
type ServiceInfo struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
}

// StaffInfo данные мастера в ответе
type StaffInfo struct {
	ID   int64
	Name string
}

// CustomerInfo данные клиента в ответе
type CustomerInfo struct {
	ID    int64
	Name  string
	Phone string
}

// Response модель ответа с созданной записью
type Response struct {
	AppointmentID int64
	Date          time.Time
	StartTime     types.TimeOfDay
	Status        string
	Notes         *string

	Service  ServiceInfo
	Staff    StaffInfo
	Customer CustomerInfo

	CreatedAt time.Time
}
