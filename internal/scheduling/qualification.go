package scheduling

import (
	"sort"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// IsQualified мастер может выполнить услугу: бронируемая роль, активен,
// не помечен как экстренно недоступный и владеет навыком
func IsQualified(staff *domain.StaffMember, serviceID int64) bool {
	if staff == nil {
		return false
	}
	return staff.Role.IsBookable() &&
		staff.IsActive &&
		!staff.EmergencyUnavailable &&
		staff.HasSkill(serviceID)
}

// FilterQualified возвращает новый срез квалифицированных мастеров, упорядоченный по ID.
// Повторное применение к результату ничего не меняет
func FilterQualified(staff []*domain.StaffMember, serviceID int64) []*domain.StaffMember {
	result := make([]*domain.StaffMember, 0, len(staff))
	for _, s := range staff {
		if IsQualified(s, serviceID) {
			result = append(result, s)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}
