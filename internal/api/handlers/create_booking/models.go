package create_booking

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// StaffRef ID мастера числом или строкой, либо "NO_PREFERENCE"
type StaffRef string

func (s *StaffRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = StaffRef(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = StaffRef(n.String())
	return nil
}

// CustomerRequest данные клиента
type CustomerRequest struct {
	Name   string  `json:"name" validate:"required,max=100"`
	Phone  string  `json:"phone" validate:"required,max=32"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Gender *string `json:"gender,omitempty" validate:"omitempty,max=16"`
}

// AppointmentRequest параметры записи
type AppointmentRequest struct {
	ServiceID  int64    `json:"serviceId" validate:"required,gt=0"`
	StaffID    StaffRef `json:"staffId" validate:"required,staffref"`
	Date       string   `json:"date" validate:"required,isodate"` // "2026-10-19"
	Time       string   `json:"time" validate:"required,hhmm"`    // "10:00"
	Notes      *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
	LocationID *int64   `json:"locationId,omitempty" validate:"omitempty,gt=0"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Customer    CustomerRequest    `json:"customer" validate:"required"`
	Appointment AppointmentRequest `json:"appointment" validate:"required"`
}

type ServiceResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Price    string `json:"price"`
}

type StaffResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	AppointmentID int64            `json:"appointmentId"`
	Date          string           `json:"date"`
	Time          string           `json:"time"`
	Status        string           `json:"status"`
	Notes         *string          `json:"notes,omitempty"`
	Service       ServiceResponse  `json:"service"`
	Staff         StaffResponse    `json:"staff"`
	Customer      CustomerResponse `json:"customer"`
	CreatedAt     string           `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Дата интерпретируется в часовом поясе салона
func (r *CreateBookingRequest) ToUseCaseRequest(loc *time.Location) (*createBooking.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Appointment.Date, loc)
	if err != nil {
		return nil, err
	}

	start, err := types.ParseTimeOfDay(r.Appointment.Time)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		Customer: createBooking.Customer{
			Name:   r.Customer.Name,
			Phone:  r.Customer.Phone,
			Email:  r.Customer.Email,
			Gender: r.Customer.Gender,
		},
		ServiceID:  r.Appointment.ServiceID,
		Date:       date,
		StartTime:  start,
		Notes:      r.Appointment.Notes,
		LocationID: r.Appointment.LocationID,
	}

	if string(r.Appointment.StaffID) == domain.NoPreference {
		req.NoPreference = true
		return req, nil
	}

	staffID, err := strconv.ParseInt(string(r.Appointment.StaffID), 10, 64)
	if err != nil {
		return nil, err
	}
	req.StaffID = &staffID
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		AppointmentID: resp.AppointmentID,
		Date:          resp.Date.Format(domain.DateFormat),
		Time:          resp.StartTime.String(),
		Status:        resp.Status,
		Notes:         resp.Notes,
		Service: ServiceResponse{
			ID:       resp.Service.ID,
			Name:     resp.Service.Name,
			Duration: resp.Service.DurationMinutes,
			Price:    resp.Service.Price.StringFixed(2),
		},
		Staff: StaffResponse{ID: resp.Staff.ID, Name: resp.Staff.Name},
		Customer: CustomerResponse{
			ID:    resp.Customer.ID,
			Name:  resp.Customer.Name,
			Phone: resp.Customer.Phone,
		},
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
	}
}
