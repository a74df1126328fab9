package create_staff_break

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	got *models.CreateBreakRequest
	err error
}

func (f *fakeService) AddBreak(_ context.Context, _ int64, req *models.CreateBreakRequest) (*models.BreakResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BreakResponse{ID: 10, Start: req.Start.String(), End: req.End.String(), Label: req.Label}, nil
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/staff/{staffId}/breaks", NewHandler(svc, nopLogger{}).Handle)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/staff/1/breaks", strings.NewReader(body)))
	return w
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	w := serve(svc, `{"start":"13:00","end":"14:00","label":"Обед"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, types.NewTimeOfDay(13, 0), svc.got.Start)
	assert.Equal(t, types.NewTimeOfDay(14, 0), svc.got.End)
	assert.Contains(t, w.Body.String(), `"id":10`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"missing end", `{"start":"13:00"}`, nil, http.StatusBadRequest},
		{"bad time", `{"start":"1pm","end":"14:00"}`, nil, http.StatusBadRequest},
		{"outside hours", `{"start":"07:00","end":"08:00"}`, schedule.ErrInvalidInput, http.StatusBadRequest},
		{"staff not found", `{"start":"13:00","end":"14:00"}`, schedule.ErrStaffNotFound, http.StatusNotFound},
		{"internal", `{"start":"13:00","end":"14:00"}`, schedule.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeService{err: tt.err}, tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
