package chat_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

// State состояние диалога
type State string

const (
	StateStart        State = "start"
	StateAwaitService State = "await_service"
	StateAwaitStaff   State = "await_staff"
	StateAwaitDate    State = "await_date"
	StateAwaitTime    State = "await_time"
	StateAwaitName    State = "await_name"
	StateAwaitPhone   State = "await_phone"
	StateAwaitConfirm State = "await_confirm"
	StateDone         State = "done"
)

// Ключи контекста диалога в сессии
const (
	keyServiceID   = "service_id"
	keyServiceName = "service_name"
	keyDuration    = "duration"
	keyStaffID     = "staff_id" // ID мастера или NO_PREFERENCE
	keyStaffName   = "staff_name"
	keyDate        = "date"
	keyTime        = "time"
	keyName        = "name"
	keyPhone       = "phone"
	keyOptions     = "options" // JSON последнего пронумерованного списка
	keyAppointment = "appointment_id"
)

const maxConversationIDLength = 128

// Config параметры диалога
type Config struct {
	Location    *time.Location // часовой пояс салона
	PhoneRegion string
	MaxOptions  int // сколько времен предлагать за раз
}

// Request входящее сообщение клиента
type Request struct {
	ConversationID string
	Text           string
}

// Response ответ бота на сообщение
type Response struct {
	ConversationID string
	State          State
	Reply          string
	Options        []string
	Appointment    *create_booking.Response // заполнено после успешной записи
}

// option пронумерованный вариант выбора (услуга или мастер)
type option struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}
