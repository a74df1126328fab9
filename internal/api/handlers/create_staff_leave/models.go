package create_staff_leave

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule/models"
)

// CreateLeaveRequest HTTP request model.
// Для fullDay задаются startDate и endDate (YYYY-MM-DD, включительно), иначе startAt и endAt (RFC 3339)
type CreateLeaveRequest struct {
	Kind      string     `json:"kind" validate:"required,oneof=vacation sick_leave holiday unavailable"`
	FullDay   bool       `json:"fullDay"`
	StartDate *string    `json:"startDate,omitempty" validate:"omitempty,isodate"`
	EndDate   *string    `json:"endDate,omitempty" validate:"omitempty,isodate"`
	StartAt   *time.Time `json:"startAt,omitempty"`
	EndAt     *time.Time `json:"endAt,omitempty"`
	Reason    *string    `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса.
// Даты разбираются в часовом поясе салона
func (r *CreateLeaveRequest) ToServiceRequest(loc *time.Location) *models.CreateLeaveRequest {
	req := &models.CreateLeaveRequest{
		Kind:    r.Kind,
		FullDay: r.FullDay,
		Reason:  r.Reason,
	}
	if r.FullDay {
		req.StartDate = parseDate(r.StartDate, loc)
		req.EndDate = parseDate(r.EndDate, loc)
		return req
	}
	if r.StartAt != nil {
		startAt := r.StartAt.In(loc)
		req.StartAt = &startAt
	}
	if r.EndAt != nil {
		endAt := r.EndAt.In(loc)
		req.EndAt = &endAt
	}
	return req
}

func parseDate(s *string, loc *time.Location) *time.Time {
	if s == nil {
		return nil
	}
	d, err := time.ParseInLocation(domain.DateFormat, *s, loc)
	if err != nil {
		return nil
	}
	return &d
}
