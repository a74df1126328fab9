package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingDate = "дата или время записи уже прошли"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для записи"
	msgStaffNotFound      = "мастер не найден"
	msgNotQualified       = "мастер не оказывает эту услугу"
	msgSlotTaken          = "выбранное время у мастера недоступно"
	msgConflict           = "время только что заняли, выберите другое"
)

// stageMessages сообщения по этапу, на котором диспетчер отсеял всех мастеров
var stageMessages = map[scheduling.Stage]string{
	scheduling.StageNotQualified: "нет мастеров, оказывающих эту услугу",
	scheduling.StageNotWorking:   "в этот день никто из мастеров не работает",
	scheduling.StageOnLeave:      "все подходящие мастера в этот день отсутствуют",
	scheduling.StageNoFreeWindow: "на выбранное время нет свободных мастеров",
}

type Handler struct {
	useCase  CreateBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateBookingUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, &req, err)
		return
	}

	h.logger.Info("POST /bookings - Appointment created: appointment_id=%d, staff_id=%d, service_id=%d",
		result.AppointmentID, result.Staff.ID, result.Service.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, req *CreateBookingRequest, err error) {
	var naErr *scheduling.NoAvailabilityError

	switch {
	case errors.Is(err, createBooking.ErrInvalidInput):
		h.logger.Warn("POST /bookings - Invalid input: %v", err)
		handlers.RespondBadRequest(w, err.Error())

	case errors.Is(err, createBooking.ErrInvalidDate):
		h.logger.Warn("POST /bookings - Date in the past: %s %s", req.Appointment.Date, req.Appointment.Time)
		handlers.RespondBadRequest(w, msgInvalidBookingDate)

	case errors.Is(err, createBooking.ErrServiceNotFound):
		h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.Appointment.ServiceID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createBooking.ErrServiceInactive):
		h.logger.Warn("POST /bookings - Service inactive: service_id=%d", req.Appointment.ServiceID)
		handlers.RespondBadRequest(w, msgServiceInactive)

	case errors.Is(err, createBooking.ErrStaffNotFound):
		h.logger.Warn("POST /bookings - Staff not found: staff_id=%s", req.Appointment.StaffID)
		handlers.RespondNotFound(w, msgStaffNotFound)

	case errors.Is(err, createBooking.ErrNotQualified):
		h.logger.Warn("POST /bookings - Not qualified: staff_id=%s, service_id=%d", req.Appointment.StaffID, req.Appointment.ServiceID)
		handlers.RespondConflict(w, msgNotQualified)

	case errors.Is(err, createBooking.ErrSlotTaken):
		h.logger.Warn("POST /bookings - Slot taken: %v", err)
		handlers.RespondConflict(w, msgSlotTaken)

	case errors.Is(err, createBooking.ErrConflict):
		h.logger.Warn("POST /bookings - Lost booking race: %v", err)
		handlers.RespondConflict(w, msgConflict)

	case errors.As(err, &naErr):
		h.logger.Warn("POST /bookings - No availability: stage=%s, service_id=%d", naErr.Stage, req.Appointment.ServiceID)
		handlers.RespondConflict(w, stageMessages[naErr.Stage])

	default:
		h.logger.Error("POST /bookings - Failed to create appointment: service_id=%d, error=%v", req.Appointment.ServiceID, err)
		handlers.RespondInternalError(w)
	}
}
