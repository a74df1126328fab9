package handlers

import (
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// TimeSlotResponse ячейка сетки слотов
type TimeSlotResponse struct {
	Start     string `json:"start"` // "10:00"
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"` // Break, On leave, Booked, Outside hours, Not working, Past
}

// FromDomainSlots конвертирует сетку слотов в DTO
func FromDomainSlots(slots []domain.TimeSlot) []TimeSlotResponse {
	result := make([]TimeSlotResponse, len(slots))
	for i, s := range slots {
		result[i] = TimeSlotResponse{
			Start:     s.StartTime.String(),
			Available: s.Available,
			Reason:    string(s.Reason),
		}
	}
	return result
}

// ParseID разбирает положительный целочисленный идентификатор из пути или query
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
