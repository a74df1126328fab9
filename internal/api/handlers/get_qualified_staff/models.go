package get_qualified_staff

import (
	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getQualifiedStaff "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_qualified_staff"
)

// StaffAvailability мастер и его сетка слотов
type StaffAvailability struct {
	StaffID        int64                       `json:"staffId"`
	StaffName      string                      `json:"staffName"`
	Skills         []int64                     `json:"skills"`
	DayReason      string                      `json:"dayReason,omitempty"`
	AvailableCount int                         `json:"availableCount"`
	Slots          []handlers.TimeSlotResponse `json:"slots"`
}

// QualifiedStaffResponse HTTP response model
type QualifiedStaffResponse struct {
	ServiceID   int64               `json:"serviceId"`
	ServiceName string              `json:"serviceName"`
	Date        string              `json:"date"`
	Duration    int                 `json:"duration"`
	Step        int                 `json:"step"`
	Staff       []StaffAvailability `json:"staff"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getQualifiedStaff.Response) *QualifiedStaffResponse {
	result := &QualifiedStaffResponse{
		ServiceID:   resp.ServiceID,
		ServiceName: resp.ServiceName,
		Date:        resp.Date.Format(domain.DateFormat),
		Duration:    resp.DurationMinutes,
		Step:        resp.StepMinutes,
		Staff:       make([]StaffAvailability, 0, len(resp.Staff)),
	}
	for _, s := range resp.Staff {
		result.Staff = append(result.Staff, StaffAvailability{
			StaffID:        s.StaffID,
			StaffName:      s.StaffName,
			Skills:         s.Skills,
			DayReason:      string(s.DayReason),
			AvailableCount: s.AvailableCount,
			Slots:          handlers.FromDomainSlots(s.Slots),
		})
	}
	return result
}
