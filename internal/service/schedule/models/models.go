package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	// ErrInvalidKind возвращается при неизвестном виде отсутствия
	ErrInvalidKind = errors.New("invalid leave kind")
)

// Request модели

// CreateBreakRequest запрос на добавление ежедневного перерыва
type CreateBreakRequest struct {
	Start types.TimeOfDay `json:"start"`
	End   types.TimeOfDay `json:"end"`
	Label *string         `json:"label,omitempty"`
}

// CreateLeaveRequest запрос на регистрацию отпуска или недоступности.
// Для FullDay задаются StartDate и EndDate (включительно), иначе StartAt и EndAt
type CreateLeaveRequest struct {
	Kind      string     `json:"kind"`
	FullDay   bool       `json:"fullDay"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	StartAt   *time.Time `json:"startAt,omitempty"`
	EndAt     *time.Time `json:"endAt,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
}

// GetScheduleRequest запрос на расписание мастера за период
type GetScheduleRequest struct {
	StaffID int64
	From    time.Time
	To      time.Time
}

// Response модели

// BreakResponse перерыв мастера
type BreakResponse struct {
	ID    int64   `json:"id"`
	Start string  `json:"start"`
	End   string  `json:"end"`
	Label *string `json:"label,omitempty"`
}

// LeaveResponse отсутствие мастера
type LeaveResponse struct {
	ID        int64   `json:"id"`
	Kind      string  `json:"kind"`
	FullDay   bool    `json:"fullDay"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	StartAt   *string `json:"startAt,omitempty"`
	EndAt     *string `json:"endAt,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

// ScheduleResponse расписание мастера: рабочие часы, перерывы и отсутствия за период
type ScheduleResponse struct {
	StaffID     int64           `json:"staffId"`
	StaffName   string          `json:"staffName"`
	WorkingDays []string        `json:"workingDays"`
	DayStart    string          `json:"dayStart"`
	DayEnd      string          `json:"dayEnd"`
	Breaks      []BreakResponse `json:"breaks"`
	Leaves      []LeaveResponse `json:"leaves"`
}

// Методы конвертации

// ToDomainLeaveKind конвертирует строку в domain.LeaveKind с валидацией
func ToDomainLeaveKind(kind string) (domain.LeaveKind, error) {
	switch k := domain.LeaveKind(kind); k {
	case domain.LeaveVacation, domain.LeaveSick, domain.LeaveHoliday, domain.LeaveUnavailable:
		return k, nil
	}
	return "", ErrInvalidKind
}

// FromDomainBreak конвертирует перерыв в DTO
func FromDomainBreak(b *domain.Break) BreakResponse {
	return BreakResponse{ID: b.ID, Start: b.Start.String(), End: b.End.String(), Label: b.Label}
}

// FromDomainLeave конвертирует отсутствие в DTO
func FromDomainLeave(l *domain.LeaveRecord) LeaveResponse {
	resp := LeaveResponse{ID: l.ID, Kind: string(l.Kind), FullDay: l.FullDay, Reason: l.Reason}
	if l.FullDay {
		start := l.StartDate.Format(domain.DateFormat)
		end := l.EndDate.Format(domain.DateFormat)
		resp.StartDate, resp.EndDate = &start, &end
		return resp
	}
	if l.StartAt != nil {
		v := l.StartAt.Format(time.RFC3339)
		resp.StartAt = &v
	}
	if l.EndAt != nil {
		v := l.EndAt.Format(time.RFC3339)
		resp.EndAt = &v
	}
	return resp
}

// FromDomainSchedule собирает расписание мастера
func FromDomainSchedule(staff *domain.StaffMember, breaks []*domain.Break, leaves []*domain.LeaveRecord) *ScheduleResponse {
	resp := &ScheduleResponse{
		StaffID:     staff.ID,
		StaffName:   staff.Name,
		WorkingDays: make([]string, 0, len(staff.WorkingDays)),
		DayStart:    staff.WorkingHours.Start.String(),
		DayEnd:      staff.WorkingHours.End.String(),
		Breaks:      make([]BreakResponse, 0, len(breaks)),
		Leaves:      make([]LeaveResponse, 0, len(leaves)),
	}
	for _, d := range staff.WorkingDays {
		resp.WorkingDays = append(resp.WorkingDays, d.String())
	}
	for _, b := range breaks {
		resp.Breaks = append(resp.Breaks, FromDomainBreak(b))
	}
	for _, l := range leaves {
		resp.Leaves = append(resp.Leaves, FromDomainLeave(l))
	}
	return resp
}
