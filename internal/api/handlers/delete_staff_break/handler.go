package delete_staff_break

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
)

const (
	msgInvalidID = "некорректный ID мастера или перерыва"
	msgNotFound  = "перерыв не найден"
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

// Handle DELETE /api/v1/staff/{staffId}/breaks/{breakId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	staffID, okStaff := handlers.ParseID(vars["staffId"])
	breakID, okBreak := handlers.ParseID(vars["breakId"])
	if !okStaff || !okBreak {
		h.logger.Warn("DELETE /staff/{id}/breaks/{breakId} - Invalid ID: staff=%q, break=%q", vars["staffId"], vars["breakId"])
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	if err := h.service.DeleteBreak(r.Context(), staffID, breakID); err != nil {
		if errors.Is(err, schedule.ErrBreakNotFound) {
			h.logger.Warn("DELETE /staff/{id}/breaks/{breakId} - Break not found: staff_id=%d, break_id=%d", staffID, breakID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("DELETE /staff/{id}/breaks/{breakId} - Failed to delete break: break_id=%d, error=%v", breakID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /staff/{id}/breaks/{breakId} - Break deleted: staff_id=%d, break_id=%d", staffID, breakID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
