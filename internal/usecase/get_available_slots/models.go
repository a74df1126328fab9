package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// Config параметры сетки салона
type Config struct {
	StepMinutes int                 // шаг сетки
	Window      scheduling.Interval // окно отображения (часы салона); пустое - рабочие часы мастера
}

// Request модель запроса на получение сетки слотов мастера
type Request struct {
	StaffID         int64
	Date            time.Time // дата в часовом поясе салона
	DurationMinutes int       // длительность услуги
}

// Response модель ответа с сеткой слотов
type Response struct {
	StaffID         int64
	StaffName       string
	Date            time.Time
	DurationMinutes int
	StepMinutes     int
	DayReason       domain.SlotReason // причина блокировки всего дня, если есть
	Slots           []domain.TimeSlot
	AvailableCount  int
}
