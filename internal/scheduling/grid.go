package scheduling

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// BuildGrid раскладывает результат калькулятора на сетку с фиксированным шагом.
// Сетка покрывает окно отображения (например, 08:00-21:00 салона), расширенное до
// рабочих часов мастера: ячейки вне рабочих часов получают Outside hours,
// а нерабочий день целиком помечается Not working.
// Пустое окно заменяется рабочими часами мастера
func BuildGrid(avail *DayAvailability, window Interval, stepMinutes int) []domain.TimeSlot {
	switch {
	case window.IsEmpty():
		window = avail.Hours
	case avail.DayReason != domain.ReasonNotWorking:
		window = window.Union(avail.Hours)
	}
	if stepMinutes <= 0 || window.IsEmpty() {
		return []domain.TimeSlot{}
	}

	byStart := make(map[int]domain.TimeSlot, len(avail.Slots))
	for _, s := range avail.Slots {
		byStart[s.StartTime.Minutes()] = s
	}

	grid := make([]domain.TimeSlot, 0, window.Duration()/stepMinutes+1)
	for t := alignUp(window.Start, stepMinutes); t < window.End; t = t.Add(stepMinutes) {
		cell := domain.TimeSlot{StartTime: t}

		switch {
		case avail.DayReason == domain.ReasonNotWorking:
			cell.Reason = domain.ReasonNotWorking
		default:
			if s, ok := byStart[t.Minutes()]; ok {
				cell = s
			} else {
				cell.Reason = domain.ReasonOutsideHours
			}
		}

		cell.Available = cell.Reason == domain.ReasonNone
		grid = append(grid, cell)
	}

	return grid
}
