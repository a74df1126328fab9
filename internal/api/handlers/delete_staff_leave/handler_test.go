package delete_staff_leave

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct{ err error }

func (f *fakeService) DeleteLeave(context.Context, int64, int64) error { return f.err }

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/staff/{staffId}/leaves/{leaveId}", NewHandler(svc, nopLogger{}).Handle)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, target, nil))
	return w
}

func TestHandle(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, serve(&fakeService{}, "/api/v1/staff/1/leaves/2").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/api/v1/staff/1/leaves/x").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: schedule.ErrLeaveNotFound}, "/api/v1/staff/1/leaves/2").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: schedule.ErrInternal}, "/api/v1/staff/1/leaves/2").Code)
}
