package get_qualified_staff

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getQualifiedStaff "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_qualified_staff"
)

const (
	msgInvalidServiceID  = "некорректный ID услуги"
	msgInvalidLocationID = "некорректный ID филиала"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration   = "некорректная длительность, ожидается число минут"
	msgServiceNotFound   = "услуга не найдена"
	msgServiceInactive   = "услуга недоступна для записи"
)

type Handler struct {
	useCase  GetQualifiedStaffUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetQualifiedStaffUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/staff-availability
// Query params: date (required), duration (optional, по умолчанию длительность услуги), locationId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := handlers.ParseID(mux.Vars(r)["serviceId"])
	if !ok {
		h.logger.Warn("GET /services/{id}/staff-availability - Invalid service ID: %q", mux.Vars(r)["serviceId"])
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	query := r.URL.Query()
	req := &getQualifiedStaff.Request{ServiceID: serviceID}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /services/{id}/staff-availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /services/{id}/staff-availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	req.Date = date

	if raw := query.Get("duration"); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /services/{id}/staff-availability - Invalid duration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDuration)
			return
		}
		req.DurationMinutes = duration
	}

	if raw := query.Get("locationId"); raw != "" {
		locationID, ok := handlers.ParseID(raw)
		if !ok {
			h.logger.Warn("GET /services/{id}/staff-availability - Invalid location ID: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLocationID)
			return
		}
		req.LocationID = &locationID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getQualifiedStaff.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/staff-availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getQualifiedStaff.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/staff-availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getQualifiedStaff.ErrServiceInactive):
			h.logger.Warn("GET /services/{id}/staff-availability - Service inactive: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		default:
			h.logger.Error("GET /services/{id}/staff-availability - Failed to get staff: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/staff-availability - Staff retrieved: service_id=%d, date=%s, staff=%d",
		serviceID, dateStr, len(result.Staff))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
