package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got *createBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &createBooking.Response{
		AppointmentID: 101,
		Date:          req.Date,
		StartTime:     req.StartTime,
		Status:        string(domain.StatusPending),
		Service:       createBooking.ServiceInfo{ID: req.ServiceID, Name: "Haircut", DurationMinutes: 60, Price: decimal.RequireFromString("25.5")},
		Staff:         createBooking.StaffInfo{ID: 2, Name: "Ann"},
		Customer:      createBooking.CustomerInfo{ID: 9, Name: "Alice", Phone: "+16502530000"},
		CreatedAt:     time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC),
	}, nil
}

const validBody = `{
	"customer": {"name": "Alice", "phone": "(650) 253-0000"},
	"appointment": {"serviceId": 10, "staffId": "NO_PREFERENCE", "date": "2026-10-19", "time": "14:00"}
}`

func do(h *Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.Handle(w, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body)))
	return w
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	w := do(NewHandler(uc, time.UTC, nopLogger{}), validBody)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, uc.got.NoPreference)
	assert.Nil(t, uc.got.StaffID)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(101), resp.AppointmentID)
	assert.Equal(t, "2026-10-19", resp.Date)
	assert.Equal(t, "14:00", resp.Time)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "25.50", resp.Service.Price)
	assert.Equal(t, 60, resp.Service.Duration)
	assert.Equal(t, "Ann", resp.Staff.Name)
	assert.Equal(t, "+16502530000", resp.Customer.Phone)
}

func TestHandle_NumericStaffID(t *testing.T) {
	uc := &fakeUseCase{}
	body := strings.Replace(validBody, `"NO_PREFERENCE"`, `7`, 1)
	w := do(NewHandler(uc, time.UTC, nopLogger{}), body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, uc.got.StaffID)
	assert.Equal(t, int64(7), *uc.got.StaffID)
	assert.False(t, uc.got.NoPreference)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing customer name", strings.Replace(validBody, `"Alice"`, `""`, 1)},
		{"bad date", strings.Replace(validBody, `2026-10-19`, `19/10/2026`, 1)},
		{"bad time", strings.Replace(validBody, `14:00`, `2pm`, 1)},
		{"bad staff", strings.Replace(validBody, `"NO_PREFERENCE"`, `"anyone"`, 1)},
		{"unknown field", strings.Replace(validBody, `"customer"`, `"extra": 1, "customer"`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			w := do(NewHandler(uc, time.UTC, nopLogger{}), tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, uc.got)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"past date", createBooking.ErrInvalidDate, http.StatusBadRequest},
		{"service not found", createBooking.ErrServiceNotFound, http.StatusNotFound},
		{"staff not found", createBooking.ErrStaffNotFound, http.StatusNotFound},
		{"not qualified", createBooking.ErrNotQualified, http.StatusConflict},
		{"slot taken", createBooking.ErrSlotTaken, http.StatusConflict},
		{"conflict", createBooking.ErrConflict, http.StatusConflict},
		{"no availability", &scheduling.NoAvailabilityError{Stage: scheduling.StageOnLeave}, http.StatusConflict},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(NewHandler(&fakeUseCase{err: tt.err}, time.UTC, nopLogger{}), validBody)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := do(NewHandler(&fakeUseCase{err: &scheduling.NoAvailabilityError{Stage: scheduling.StageOnLeave}}, time.UTC, nopLogger{}), validBody)
	assert.Contains(t, w.Body.String(), stageMessages[scheduling.StageOnLeave])
}
