package create_staff_break

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// CreateBreakRequest HTTP request model
type CreateBreakRequest struct {
	Start string  `json:"start" validate:"required,hhmm"`
	End   string  `json:"end" validate:"required,hhmm"`
	Label *string `json:"label,omitempty" validate:"omitempty,max=100"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса.
// Формат времени уже проверен валидатором
func (r *CreateBreakRequest) ToServiceRequest() *models.CreateBreakRequest {
	return &models.CreateBreakRequest{
		Start: types.MustParseTimeOfDay(r.Start),
		End:   types.MustParseTimeOfDay(r.End),
		Label: r.Label,
	}
}
