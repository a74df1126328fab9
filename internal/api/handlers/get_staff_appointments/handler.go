package get_staff_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

const (
	msgInvalidStaffID = "некорректный ID мастера"
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidFlag    = "некорректное значение includeCancelled"
	msgStaffNotFound  = "мастер не найден"
)

type Handler struct {
	service  AppointmentService
	location *time.Location
	logger   Logger
}

func NewHandler(service AppointmentService, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/appointments
// Query params: date (required), includeCancelled (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, ok := handlers.ParseID(mux.Vars(r)["staffId"])
	if !ok {
		h.logger.Warn("GET /staff/{id}/appointments - Invalid staff ID: %q", mux.Vars(r)["staffId"])
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	query := r.URL.Query()
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /staff/{id}/appointments - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/appointments - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &models.GetStaffDayRequest{StaffID: staffID, Date: date}
	if raw := query.Get("includeCancelled"); raw != "" {
		req.IncludeCancelled, err = strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /staff/{id}/appointments - Invalid includeCancelled: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFlag)
			return
		}
	}

	result, err := h.service.GetStaffDay(r.Context(), req)
	if err != nil {
		if errors.Is(err, appointments.ErrStaffNotFound) {
			h.logger.Warn("GET /staff/{id}/appointments - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgStaffNotFound)
			return
		}
		h.logger.Error("GET /staff/{id}/appointments - Failed to get appointments: staff_id=%d, error=%v", staffID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /staff/{id}/appointments - Appointments retrieved: staff_id=%d, date=%s, count=%d",
		staffID, dateStr, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
