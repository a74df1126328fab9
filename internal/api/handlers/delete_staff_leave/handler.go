package delete_staff_leave

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
)

const (
	msgInvalidID = "некорректный ID мастера или отсутствия"
	msgNotFound  = "отсутствие не найдено"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/staff/{staffId}/leaves/{leaveId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	staffID, okStaff := handlers.ParseID(vars["staffId"])
	leaveID, okLeave := handlers.ParseID(vars["leaveId"])
	if !okStaff || !okLeave {
		h.logger.Warn("DELETE /staff/{id}/leaves/{leaveId} - Invalid ID: staff=%q, leave=%q", vars["staffId"], vars["leaveId"])
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteLeave(r.Context(), staffID, leaveID); err != nil {
		if errors.Is(err, schedule.ErrLeaveNotFound) {
			h.logger.Warn("DELETE /staff/{id}/leaves/{leaveId} - Leave not found: staff_id=%d, leave_id=%d", staffID, leaveID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /staff/{id}/leaves/{leaveId} - Failed to delete leave: leave_id=%d, error=%v", leaveID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /staff/{id}/leaves/{leaveId} - Leave deleted: staff_id=%d, leave_id=%d", staffID, leaveID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
