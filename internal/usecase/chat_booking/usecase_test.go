package chat_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/session"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/get_qualified_staff"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	monday = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type catalogFake struct{ services []*domain.Service }

func (c *catalogFake) ListActive(context.Context) ([]*domain.Service, error) { return c.services, nil }

func grid(pairs ...interface{}) []domain.TimeSlot {
	var result []domain.TimeSlot
	for i := 0; i < len(pairs); i += 2 {
		reason := pairs[i+1].(domain.SlotReason)
		result = append(result, domain.TimeSlot{
			StartTime: types.MustParseTimeOfDay(pairs[i].(string)),
			Available: reason == domain.ReasonNone,
			Reason:    reason,
		})
	}
	return result
}

type staffFinderFake struct {
	slots map[int64][]domain.TimeSlot
	names map[int64]string
	order []int64
	calls []*get_qualified_staff.Request
}

func (f *staffFinderFake) Execute(_ context.Context, req *get_qualified_staff.Request) (*get_qualified_staff.Response, error) {
	f.calls = append(f.calls, req)
	resp := &get_qualified_staff.Response{ServiceID: req.ServiceID, Date: req.Date}
	for _, id := range f.order {
		resp.Staff = append(resp.Staff, get_qualified_staff.StaffSlots{
			StaffID: id, StaffName: f.names[id], Slots: f.slots[id],
		})
	}
	return resp, nil
}

type slotFinderFake struct {
	slots map[int64][]domain.TimeSlot
	calls []*get_available_slots.Request
}

func (f *slotFinderFake) Execute(_ context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error) {
	f.calls = append(f.calls, req)
	return &get_available_slots.Response{StaffID: req.StaffID, Date: req.Date, Slots: f.slots[req.StaffID]}, nil
}

type bookerFake struct {
	errs     []error
	requests []*create_booking.Request
}

func (f *bookerFake) Execute(_ context.Context, req *create_booking.Request) (*create_booking.Response, error) {
	f.requests = append(f.requests, req)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &create_booking.Response{
		AppointmentID: 42,
		Date:          req.Date,
		StartTime:     req.StartTime,
		Status:        string(domain.StatusPending),
		Service:       create_booking.ServiceInfo{ID: req.ServiceID, Name: "Haircut"},
		Staff:         create_booking.StaffInfo{ID: 3, Name: "Bob"},
	}, nil
}

type failingStore struct{ session.MemoryStore }

func (failingStore) Load(context.Context, string) (*session.Session, error) {
	return nil, errors.New("redis down")
}

type harness struct {
	uc     *UseCase
	store  *session.MemoryStore
	staff  *staffFinderFake
	slots  *slotFinderFake
	booker *bookerFake
}

func newHarness() *harness {
	h := &harness{
		store: session.NewMemoryStore(time.Hour),
		staff: &staffFinderFake{
			names: map[int64]string{3: "Bob", 5: "Ann"},
			order: []int64{3, 5},
			slots: map[int64][]domain.TimeSlot{
				3: grid("10:00", domain.ReasonNone, "10:30", domain.ReasonBooked, "11:00", domain.ReasonNone),
				5: grid("10:00", domain.ReasonBreak, "10:30", domain.ReasonNone, "11:00", domain.ReasonNone),
			},
		},
		slots: &slotFinderFake{slots: map[int64][]domain.TimeSlot{
			3: grid("10:00", domain.ReasonNone, "10:30", domain.ReasonBooked, "11:00", domain.ReasonNone),
		}},
		booker: &bookerFake{},
	}
	catalog := &catalogFake{services: []*domain.Service{
		{ID: 10, Name: "Haircut", DurationMinutes: 60, Price: decimal.NewFromInt(25), IsActive: true},
		{ID: 11, Name: "Coloring", DurationMinutes: 90, Price: decimal.NewFromInt(80), IsActive: true},
	}}
	h.uc = NewUseCase(h.store, catalog, h.booker, h.slots, h.staff, nopLogger{}, Config{Location: time.UTC})
	h.uc.timeProvider = fixedTime{t: now}
	return h
}

func (h *harness) say(t *testing.T, text string) *Response {
	t.Helper()
	resp, err := h.uc.Execute(context.Background(), &Request{ConversationID: "c1", Text: text})
	require.NoError(t, err)
	return resp
}

func TestChat_ExplicitStaffHappyPath(t *testing.T) {
	h := newHarness()

	resp := h.say(t, "hi")
	assert.Equal(t, StateAwaitService, resp.State)
	assert.Equal(t, []string{"1. Haircut (60 min, 25.00)", "2. Coloring (90 min, 80.00)"}, resp.Options)

	resp = h.say(t, "1")
	assert.Equal(t, StateAwaitStaff, resp.State)
	assert.Equal(t, []string{"0. No preference", "1. Bob", "2. Ann"}, resp.Options)

	resp = h.say(t, "1")
	assert.Equal(t, StateAwaitDate, resp.State)

	resp = h.say(t, "2026-10-19")
	assert.Equal(t, StateAwaitTime, resp.State)
	assert.Equal(t, []string{"10:00", "11:00"}, resp.Options)
	require.Len(t, h.slots.calls, 1)
	assert.Equal(t, 60, h.slots.calls[0].DurationMinutes)

	resp = h.say(t, "10:30")
	assert.Equal(t, StateAwaitTime, resp.State, "blocked time is rejected")

	resp = h.say(t, "10:00")
	assert.Equal(t, StateAwaitName, resp.State)

	resp = h.say(t, "Alice")
	assert.Equal(t, StateAwaitPhone, resp.State)

	resp = h.say(t, "not a phone")
	assert.Equal(t, StateAwaitPhone, resp.State)

	resp = h.say(t, "(650) 253-0000")
	assert.Equal(t, StateAwaitConfirm, resp.State)
	assert.Contains(t, resp.Reply, "Haircut with Bob on 2026-10-19 at 10:00 for Alice (+16502530000)")

	resp = h.say(t, "yes")
	assert.Equal(t, StateDone, resp.State)
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, int64(42), resp.Appointment.AppointmentID)

	require.Len(t, h.booker.requests, 1)
	req := h.booker.requests[0]
	require.NotNil(t, req.StaffID)
	assert.Equal(t, int64(3), *req.StaffID)
	assert.False(t, req.NoPreference)
	assert.Equal(t, int64(10), req.ServiceID)
	assert.True(t, req.Date.Equal(monday))
	assert.Equal(t, types.MustParseTimeOfDay("10:00"), req.StartTime)
	assert.Equal(t, "+16502530000", req.Customer.Phone)
	assert.Equal(t, "Alice", req.Customer.Name)
}

func TestChat_NoPreferenceUnionOfTimes(t *testing.T) {
	h := newHarness()
	h.say(t, "hi")
	h.say(t, "Haircut")
	h.say(t, "0")

	resp := h.say(t, "2026-10-19")
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, resp.Options)

	h.say(t, "10:30")
	h.say(t, "Alice")
	h.say(t, "+1 650 253 0000")
	resp = h.say(t, "y")
	assert.Equal(t, StateDone, resp.State)

	require.Len(t, h.booker.requests, 1)
	assert.True(t, h.booker.requests[0].NoPreference)
	assert.Nil(t, h.booker.requests[0].StaffID)
}

func TestChat_ConflictOffersFreshTimes(t *testing.T) {
	h := newHarness()
	h.booker.errs = []error{create_booking.ErrConflict}

	for _, msg := range []string{"hi", "1", "1", "2026-10-19", "10:00", "Alice", "6502530000"} {
		h.say(t, msg)
	}

	resp := h.say(t, "yes")
	assert.Equal(t, StateAwaitTime, resp.State)
	assert.Contains(t, resp.Reply, "just taken")
	assert.NotEmpty(t, resp.Options)

	h.say(t, "11:00")
	h.say(t, "Alice")
	h.say(t, "6502530000")
	resp = h.say(t, "yes")
	assert.Equal(t, StateDone, resp.State)
	require.Len(t, h.booker.requests, 2)
	assert.Equal(t, types.MustParseTimeOfDay("11:00"), h.booker.requests[1].StartTime)
}

func TestChat_NoAvailabilityDayFull(t *testing.T) {
	h := newHarness()
	h.booker.errs = []error{&scheduling.NoAvailabilityError{Stage: scheduling.StageNoFreeWindow}}

	for _, msg := range []string{"hi", "1", "1", "2026-10-19", "10:00", "Alice", "6502530000"} {
		h.say(t, msg)
	}
	h.slots.slots[3] = grid("10:00", domain.ReasonBooked)

	resp := h.say(t, "yes")
	assert.Equal(t, StateAwaitDate, resp.State)
}

func TestChat_DateHandling(t *testing.T) {
	h := newHarness()
	h.say(t, "hi")
	h.say(t, "1")
	h.say(t, "1")

	resp := h.say(t, "someday")
	assert.Equal(t, StateAwaitDate, resp.State)

	resp = h.say(t, "2026-10-01")
	assert.Equal(t, StateAwaitDate, resp.State)
	assert.Contains(t, resp.Reply, "past")

	h.slots.slots[3] = nil
	resp = h.say(t, "tomorrow")
	assert.Equal(t, StateAwaitDate, resp.State)
	assert.Contains(t, resp.Reply, "2026-10-18")
}

func TestChat_ConfirmNoAndRestart(t *testing.T) {
	h := newHarness()
	for _, msg := range []string{"hi", "1", "1", "2026-10-19", "10:00", "Alice", "6502530000"} {
		h.say(t, msg)
	}

	resp := h.say(t, "maybe")
	assert.Equal(t, StateAwaitConfirm, resp.State)

	resp = h.say(t, "no")
	assert.Equal(t, StateAwaitService, resp.State)
	assert.Empty(t, h.booker.requests)

	h.say(t, "2")
	resp = h.say(t, "restart")
	assert.Equal(t, StateAwaitService, resp.State)

	sess, err := h.store.Load(context.Background(), "c1")
	require.NoError(t, err)
	assert.Empty(t, sess.Get(keyServiceID))
}

func TestChat_SessionSurvivesNewInstance(t *testing.T) {
	h := newHarness()
	h.say(t, "hi")
	h.say(t, "1")

	other := NewUseCase(h.store, &catalogFake{}, h.booker, h.slots, h.staff, nopLogger{}, Config{})
	other.timeProvider = fixedTime{t: now}

	resp, err := other.Execute(context.Background(), &Request{ConversationID: "c1", Text: "2"})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitDate, resp.State)

	sess, err := h.store.Load(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "5", sess.Get(keyStaffID))
	assert.Equal(t, "Ann", sess.Get(keyStaffName))
}

func TestChat_DoneStartsOver(t *testing.T) {
	h := newHarness()
	for _, msg := range []string{"hi", "1", "1", "2026-10-19", "10:00", "Alice", "6502530000", "yes"} {
		h.say(t, msg)
	}

	resp := h.say(t, "hello again")
	assert.Equal(t, StateAwaitService, resp.State)
}

func TestChat_Errors(t *testing.T) {
	h := newHarness()

	_, err := h.uc.Execute(context.Background(), &Request{ConversationID: "", Text: "hi"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.uc.Execute(context.Background(), &Request{ConversationID: "c1", Text: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	broken := NewUseCase(&failingStore{}, &catalogFake{}, h.booker, h.slots, h.staff, nopLogger{}, Config{})
	_, err = broken.Execute(context.Background(), &Request{ConversationID: "c1", Text: "hi"})
	assert.ErrorIs(t, err, ErrSession)
}
