package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleDTO struct {
	Date    string `json:"date" validate:"required,isodate"`
	Time    string `json:"time" validate:"required,hhmm"`
	StaffID string `json:"staffId" validate:"required,staffref"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(&sampleDTO{Date: "2026-10-19", Time: "10:30", StaffID: "NO_PREFERENCE"}))
	assert.NoError(t, Validate(&sampleDTO{Date: "2026-10-19", Time: "10:30", StaffID: "7"}))

	err := Validate(&sampleDTO{Date: "19.10.2026", Time: "25:00", StaffID: "-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "time")
	assert.Contains(t, err.Error(), "staffId")

	for _, v := range []string{"10:00:zz", "10:00:00", "1000"} {
		err := Validate(&sampleDTO{Date: "2026-10-19", Time: v, StaffID: "7"})
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "time", v)
	}
}

func TestRespondError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondConflict(w, "занято")

	assert.Equal(t, 409, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"занято"}`, w.Body.String())
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst sampleDTO
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"date":"2026-10-19","extra":1}`))
	assert.Error(t, DecodeJSON(r, &dst))
}
