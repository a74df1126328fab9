package notification

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const (
	EventBookingCreated = "booking.created"

	resultOK     = "ok"
	resultFailed = "failed"
	resultSkip   = "skipped"
)

// BookingConfirmation данные подтверждения о созданной записи
type BookingConfirmation struct {
	AppointmentID   int64           `json:"appointment_id"`
	Date            time.Time       `json:"-"`
	StartTime       types.TimeOfDay `json:"time"`
	Status          string          `json:"status"`
	ServiceName     string          `json:"service_name"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
	StaffName       string          `json:"staff_name"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   *string         `json:"customer_email,omitempty"`
}

// DateString дата записи в формате YYYY-MM-DD
func (m BookingConfirmation) DateString() string {
	return m.Date.Format("2006-01-02")
}

// Text короткий текст подтверждения для клиента
func (m BookingConfirmation) Text() string {
	return fmt.Sprintf("%s, you are booked for %s with %s on %s at %s (%d min). Booking #%d.",
		m.CustomerName, m.ServiceName, m.StaffName, m.DateString(), m.StartTime, m.DurationMinutes, m.AppointmentID)
}

// event сообщение о записи для внешних потребителей
type event struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Date      string `json:"date"`
	BookingConfirmation
}

func newEvent(id string, msg BookingConfirmation) event {
	return event{
		EventID:             id,
		EventType:           EventBookingCreated,
		Date:                msg.DateString(),
		BookingConfirmation: msg,
	}
}
