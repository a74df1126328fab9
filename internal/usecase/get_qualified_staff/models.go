package get_qualified_staff

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// Config параметры сетки салона
type Config struct {
	StepMinutes int
	Window      scheduling.Interval
}

// Request модель запроса: квалифицированные мастера со слотами на дату
type Request struct {
	ServiceID       int64
	Date            time.Time
	DurationMinutes int    // 0 - длительность услуги из каталога
	LocationID      *int64 // опционально, фильтр по филиалу
}

// StaffSlots мастер и его сетка на дату
type StaffSlots struct {
	StaffID        int64
	StaffName      string
	Skills         []int64
	DayReason      domain.SlotReason
	Slots          []domain.TimeSlot
	AvailableCount int
}

// Response модель ответа
type Response struct {
	ServiceID       int64
	ServiceName     string
	Date            time.Time
	DurationMinutes int
	StepMinutes     int
	Staff           []StaffSlots // упорядочены по ID мастера
}
