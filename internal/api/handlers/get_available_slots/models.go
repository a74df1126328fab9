package get_available_slots

import (
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	StaffID        int64                       `json:"staffId"`
	StaffName      string                      `json:"staffName"`
	Date           string                      `json:"date"`
	Duration       int                         `json:"duration"`
	Step           int                         `json:"step"`
	DayReason      string                      `json:"dayReason,omitempty"`
	AvailableCount int                         `json:"availableCount"`
	Slots          []handlers.TimeSlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		StaffID:        resp.StaffID,
		StaffName:      resp.StaffName,
		Date:           resp.Date.Format(domain.DateFormat),
		Duration:       resp.DurationMinutes,
		Step:           resp.StepMinutes,
		DayReason:      string(resp.DayReason),
		AvailableCount: resp.AvailableCount,
		Slots:          handlers.FromDomainSlots(resp.Slots),
	}
}
