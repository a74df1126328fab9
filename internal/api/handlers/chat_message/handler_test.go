package chat_message

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/chat_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got *chatBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *chatBooking.Request) (*chatBooking.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &chatBooking.Response{
		ConversationID: req.ConversationID,
		State:          chatBooking.StateAwaitStaff,
		Reply:          "Выберите мастера",
		Options:        []string{"0. Любой мастер", "1. Alice"},
	}, nil
}

func serve(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/chat/{conversationId}/messages", NewHandler(uc, nopLogger{}).Handle)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/conv-1/messages", strings.NewReader(body))
	router.ServeHTTP(w, req)
	return w
}

func TestHandle_OK(t *testing.T) {
	uc := &fakeUseCase{}
	w := serve(uc, `{"text":"1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "conv-1", uc.got.ConversationID)
	assert.Equal(t, "1", uc.got.Text)

	var resp MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "await_staff", resp.State)
	assert.Len(t, resp.Options, 2)
	assert.Nil(t, resp.Appointment)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad json", `{"text":`, nil, http.StatusBadRequest},
		{"unknown field", `{"text":"hi","foo":1}`, nil, http.StatusBadRequest},
		{"empty text", `{"text":""}`, nil, http.StatusBadRequest},
		{"invalid input", `{"text":"hi"}`, chatBooking.ErrInvalidInput, http.StatusBadRequest},
		{"session", `{"text":"hi"}`, chatBooking.ErrSession, http.StatusServiceUnavailable},
		{"internal", `{"text":"hi"}`, chatBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&fakeUseCase{err: tt.err}, tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
