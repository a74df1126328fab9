package scheduling

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Interval полуоткрытый интервал [Start, End) в минутах от полуночи
type Interval struct {
	Start types.TimeOfDay
	End   types.TimeOfDay
}

// NewInterval создает окно заданной длительности, начиная со start
func NewInterval(start types.TimeOfDay, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(durationMinutes)}
}

// Overlaps проверяет РЕАЛЬНОЕ пересечение интервалов.
// Граничащие интервалы (один заканчивается ровно там, где начинается другой) НЕ пересекаются:
// - [10:00, 10:30) и [10:30, 11:00) → нет пересечения
// - [10:00, 11:00) и [10:30, 11:00) → есть пересечение
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Contains проверяет, что other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return other.Start >= i.Start && other.End <= i.End
}

// Duration длительность интервала в минутах
func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

// IsEmpty true для пустого или перевернутого интервала
func (i Interval) IsEmpty() bool {
	return i.End <= i.Start
}

// Union наименьший интервал, покрывающий оба. Пустые интервалы не учитываются
func (i Interval) Union(other Interval) Interval {
	if other.IsEmpty() {
		return i
	}
	if i.IsEmpty() {
		return other
	}
	if other.Start < i.Start {
		i.Start = other.Start
	}
	if other.End > i.End {
		i.End = other.End
	}
	return i
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start, i.End)
}

// overlapsAny проверяет пересечение окна хотя бы с одним интервалом из списка
func overlapsAny(window Interval, intervals []Interval) bool {
	for _, iv := range intervals {
		if window.Overlaps(iv) {
			return true
		}
	}
	return false
}

// alignUp округляет время вверх до ближайшего кратного шагу (шаг считается от полуночи)
func alignUp(t types.TimeOfDay, step int) types.TimeOfDay {
	rem := int(t) % step
	if rem == 0 {
		return t
	}
	return t.Add(step - rem)
}
