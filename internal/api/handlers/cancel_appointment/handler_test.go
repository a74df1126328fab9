package cancel_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.CancelRequest
	err error
}

func (f *fakeService) Cancel(_ context.Context, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, Status: "cancelled"}, nil
}

func serve(svc *fakeService, target, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{appointmentId}/cancel", NewHandler(svc, nopLogger{}).Handle)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body)))
	return w
}

func TestHandle_WithReason(t *testing.T) {
	svc := &fakeService{}
	w := serve(svc, "/api/v1/appointments/5/cancel", `{"cancellationReason":"заболела"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "заболела", svc.got.Reason)
}

func TestHandle_EmptyBody(t *testing.T) {
	svc := &fakeService{}
	w := serve(svc, "/api/v1/appointments/5/cancel", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.got.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		err    error
		status int
	}{
		{"bad id", "/api/v1/appointments/x/cancel", "", nil, http.StatusBadRequest},
		{"bad body", "/api/v1/appointments/5/cancel", `{"reason":1}`, nil, http.StatusBadRequest},
		{"reason too long", "/api/v1/appointments/5/cancel", `{"cancellationReason":"` + strings.Repeat("a", 501) + `"}`, nil, http.StatusBadRequest},
		{"not found", "/api/v1/appointments/5/cancel", "", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"cannot cancel", "/api/v1/appointments/5/cancel", "", appointments.ErrCannotCancel, http.StatusConflict},
		{"internal", "/api/v1/appointments/5/cancel", "", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeService{err: tt.err}, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
