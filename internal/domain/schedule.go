package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// WorkingHours is the daily working window of a staff member
type WorkingHours struct {
	Start types.TimeOfDay
	End   types.TimeOfDay
}

// IsEmpty returns true if no hours are configured
func (h WorkingHours) IsEmpty() bool {
	return h.End <= h.Start
}

// Break is a recurring daily break of a staff member.
// Breaks apply on every working day.
type Break struct {
	ID      int64
	StaffID int64
	Start   types.TimeOfDay
	End     types.TimeOfDay
	Label   *string
}

// LeaveKind describes why a staff member is unavailable
type LeaveKind string

const (
	LeaveVacation    LeaveKind = "vacation"
	LeaveSick        LeaveKind = "sick_leave"
	LeaveHoliday     LeaveKind = "holiday"
	LeaveUnavailable LeaveKind = "unavailable"
)

// LeaveRecord is a period during which a staff member cannot be booked.
// Either a full-day inclusive date range (FullDay, StartDate..EndDate)
// or a partial datetime range (StartAt..EndAt).
type LeaveRecord struct {
	ID        int64
	StaffID   int64
	Kind      LeaveKind
	FullDay   bool
	StartDate time.Time
	EndDate   time.Time
	StartAt   *time.Time
	EndAt     *time.Time
	Reason    *string
}

// CoversWholeDay returns true if the record blocks the entire date
func (l *LeaveRecord) CoversWholeDay(date time.Time) bool {
	if l.FullDay {
		key := dateKey(date)
		return key >= dateKey(l.StartDate) && key <= dateKey(l.EndDate)
	}
	day := DateOnly(date)
	if l.StartAt == nil || l.EndAt == nil {
		return false
	}
	nextDay := day.AddDate(0, 0, 1)
	return !l.StartAt.After(day) && !l.EndAt.Before(nextDay)
}

// PartialWindow returns the part of the leave that falls on the date as
// minute-of-day bounds. ok is false if the leave does not touch the date.
func (l *LeaveRecord) PartialWindow(date time.Time) (start, end types.TimeOfDay, ok bool) {
	if l.FullDay || l.StartAt == nil || l.EndAt == nil {
		return 0, 0, false
	}

	day := DateOnly(date)
	nextDay := day.AddDate(0, 0, 1)
	from := l.StartAt.In(day.Location())
	to := l.EndAt.In(day.Location())

	if !from.Before(nextDay) || !to.After(day) {
		return 0, 0, false
	}

	start = 0
	if from.After(day) {
		start = types.TimeOfDay(from.Sub(day) / time.Minute)
	}
	end = types.MinutesPerDay
	if to.Before(nextDay) {
		end = types.TimeOfDay(to.Sub(day) / time.Minute)
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// DateOnly truncates the time part keeping the location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dateKey сравнимое представление календарной даты без учета часового пояса.
// DATE-колонки приходят из БД в UTC, а запрошенная дата в поясе салона
func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
