package chat_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/session"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/internal/usecase/get_qualified_staff"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// turn результат одного перехода
type turn struct {
	reply       string
	options     []string
	appointment *create_booking.Response
}

func (uc *UseCase) step(ctx context.Context, sess *session.Session, text string) (turn, error) {
	switch State(sess.State) {
	case StateAwaitService:
		return uc.onService(ctx, sess, text)
	case StateAwaitStaff:
		return uc.onStaff(ctx, sess, text)
	case StateAwaitDate:
		return uc.onDate(ctx, sess, text)
	case StateAwaitTime:
		return uc.onTime(ctx, sess, text)
	case StateAwaitName:
		return uc.onName(sess, text)
	case StateAwaitPhone:
		return uc.onPhone(sess, text)
	case StateAwaitConfirm:
		return uc.onConfirm(ctx, sess, text)
	default:
		// start, done и неизвестные состояния начинают диалог заново
		resetSession(sess)
		return uc.askService(ctx, sess, "Hi! Which service would you like to book?")
	}
}

// askService -> await_service
func (uc *UseCase) askService(ctx context.Context, sess *session.Session, prompt string) (turn, error) {
	services, err := uc.services.ListActive(ctx)
	if err != nil {
		return turn{}, fmt.Errorf("%w: list services: %v", ErrInternal, err)
	}
	if len(services) == 0 {
		sess.State = string(StateStart)
		return turn{reply: "Sorry, no services are available for booking right now."}, nil
	}

	opts := make([]option, 0, len(services))
	for _, s := range services {
		opts = append(opts, option{
			ID:    s.ID,
			Label: fmt.Sprintf("%s (%d min, %s)", s.Name, s.DurationMinutes, s.Price.StringFixed(2)),
		})
	}
	if err := saveOptions(sess, opts); err != nil {
		return turn{}, err
	}

	sess.State = string(StateAwaitService)
	return turn{reply: prompt, options: numbered(opts)}, nil
}

// await_service -> await_staff
func (uc *UseCase) onService(ctx context.Context, sess *session.Session, text string) (turn, error) {
	opts := loadOptions(sess)
	choice, ok := pick(opts, text)
	if !ok {
		return turn{reply: "Please choose a service by its number.", options: numbered(opts)}, nil
	}

	services, err := uc.services.ListActive(ctx)
	if err != nil {
		return turn{}, fmt.Errorf("%w: list services: %v", ErrInternal, err)
	}
	var service *domain.Service
	for _, s := range services {
		if s.ID == choice.ID {
			service = s
			break
		}
	}
	if service == nil {
		return uc.askService(ctx, sess, "That service is no longer available. Please choose another one.")
	}

	sess.Set(keyServiceID, strconv.FormatInt(service.ID, 10))
	sess.Set(keyServiceName, service.Name)
	sess.Set(keyDuration, strconv.Itoa(service.DurationMinutes))

	// Имена мастеров для выбора; слоты уточняются после выбора даты
	resp, err := uc.staff.Execute(ctx, &get_qualified_staff.Request{
		ServiceID: service.ID,
		Date:      uc.today(),
	})
	if err != nil {
		return turn{}, fmt.Errorf("%w: qualified staff: %v", ErrInternal, err)
	}
	if len(resp.Staff) == 0 {
		return uc.askService(ctx, sess, fmt.Sprintf("Sorry, nobody performs %s at the moment. Please choose another service.", service.Name))
	}

	opts = make([]option, 0, len(resp.Staff))
	for _, s := range resp.Staff {
		opts = append(opts, option{ID: s.StaffID, Label: s.StaffName})
	}
	if err := saveOptions(sess, opts); err != nil {
		return turn{}, err
	}

	sess.State = string(StateAwaitStaff)
	return turn{
		reply:   fmt.Sprintf("Who would you like for %s? Reply 0 for no preference.", service.Name),
		options: append([]string{"0. No preference"}, numbered(opts)...),
	}, nil
}

// await_staff -> await_date
func (uc *UseCase) onStaff(_ context.Context, sess *session.Session, text string) (turn, error) {
	opts := loadOptions(sess)

	switch strings.ToLower(text) {
	case "0", "any", "anyone", "no preference":
		sess.Set(keyStaffID, domain.NoPreference)
		sess.Set(keyStaffName, "")
	default:
		choice, ok := pick(opts, text)
		if !ok {
			return turn{
				reply:   "Please choose a stylist by number, or 0 for no preference.",
				options: append([]string{"0. No preference"}, numbered(opts)...),
			}, nil
		}
		sess.Set(keyStaffID, strconv.FormatInt(choice.ID, 10))
		sess.Set(keyStaffName, choice.Label)
	}

	sess.State = string(StateAwaitDate)
	return turn{reply: "Which date? Reply with YYYY-MM-DD, \"today\" or \"tomorrow\"."}, nil
}

// await_date -> await_time
func (uc *UseCase) onDate(ctx context.Context, sess *session.Session, text string) (turn, error) {
	today := uc.today()
	date, ok := parseDate(text, today)
	if !ok {
		return turn{reply: "I did not understand the date. Please use YYYY-MM-DD, \"today\" or \"tomorrow\"."}, nil
	}
	if date.Before(today) {
		return turn{reply: "That date is in the past. Please choose another date."}, nil
	}

	times, err := uc.freeTimes(ctx, sess, date)
	if err != nil {
		return turn{}, err
	}
	if len(times) == 0 {
		return turn{reply: fmt.Sprintf("No free time on %s. Please choose another date.", date.Format(domain.DateFormat))}, nil
	}

	sess.Set(keyDate, date.Format(domain.DateFormat))
	sess.State = string(StateAwaitTime)
	return turn{
		reply:   fmt.Sprintf("Free times on %s. Which one suits you?", date.Format(domain.DateFormat)),
		options: uc.timeOptions(times),
	}, nil
}

// await_time -> await_name
func (uc *UseCase) onTime(ctx context.Context, sess *session.Session, text string) (turn, error) {
	date, err := uc.sessionDate(sess)
	if err != nil {
		return turn{}, err
	}

	times, err := uc.freeTimes(ctx, sess, date)
	if err != nil {
		return turn{}, err
	}

	start, err := types.ParseTimeOfDay(text)
	if err != nil || !containsTime(times, start) {
		if len(times) == 0 {
			sess.State = string(StateAwaitDate)
			return turn{reply: fmt.Sprintf("No free time left on %s. Please choose another date.", date.Format(domain.DateFormat))}, nil
		}
		return turn{reply: "Please pick one of the free times (HH:MM).", options: uc.timeOptions(times)}, nil
	}

	sess.Set(keyTime, start.String())
	sess.State = string(StateAwaitName)
	return turn{reply: "What is your name?"}, nil
}

// await_name -> await_phone
func (uc *UseCase) onName(sess *session.Session, text string) (turn, error) {
	if len([]rune(text)) > domain.MaxCustomerNameLength {
		return turn{reply: fmt.Sprintf("Name is too long, please keep it under %d characters.", domain.MaxCustomerNameLength)}, nil
	}

	sess.Set(keyName, text)
	sess.State = string(StateAwaitPhone)
	return turn{reply: "What is your phone number?"}, nil
}

// await_phone -> await_confirm
func (uc *UseCase) onPhone(sess *session.Session, text string) (turn, error) {
	num, err := phonenumbers.Parse(text, uc.cfg.PhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return turn{reply: "That does not look like a valid phone number. Please try again."}, nil
	}

	sess.Set(keyPhone, phonenumbers.Format(num, phonenumbers.E164))
	sess.State = string(StateAwaitConfirm)
	return turn{reply: summary(sess) + " Reply yes to confirm or no to start over."}, nil
}

// await_confirm -> done
func (uc *UseCase) onConfirm(ctx context.Context, sess *session.Session, text string) (turn, error) {
	switch strings.ToLower(text) {
	case "yes", "y", "confirm", "ok":
	case "no", "n":
		resetSession(sess)
		return uc.askService(ctx, sess, "No problem. Which service would you like to book?")
	default:
		return turn{reply: summary(sess) + " Please reply yes or no."}, nil
	}

	req, err := uc.bookingRequest(sess)
	if err != nil {
		return turn{}, err
	}

	resp, err := uc.booker.Execute(ctx, req)
	if err != nil {
		return uc.onBookingFailed(ctx, sess, err)
	}

	sess.Set(keyAppointment, strconv.FormatInt(resp.AppointmentID, 10))
	sess.State = string(StateDone)
	return turn{
		reply: fmt.Sprintf("Booked! Appointment #%d: %s with %s on %s at %s.",
			resp.AppointmentID, resp.Service.Name, resp.Staff.Name,
			resp.Date.Format(domain.DateFormat), resp.StartTime),
		appointment: resp,
	}, nil
}

// onBookingFailed окно заняли, пока клиент отвечал: предлагаем свежие времена
func (uc *UseCase) onBookingFailed(ctx context.Context, sess *session.Session, err error) (turn, error) {
	switch {
	case errors.Is(err, create_booking.ErrSlotTaken),
		errors.Is(err, create_booking.ErrConflict),
		errors.Is(err, create_booking.ErrInvalidDate),
		errors.Is(err, scheduling.ErrNoAvailability):
		uc.logger.Warn("ChatBooking: conversation %s: slot is gone: %v", sess.ConversationID, err)

		date, derr := uc.sessionDate(sess)
		if derr != nil {
			return turn{}, derr
		}
		times, ferr := uc.freeTimes(ctx, sess, date)
		if ferr != nil {
			return turn{}, ferr
		}
		if len(times) == 0 {
			sess.State = string(StateAwaitDate)
			return turn{reply: "Sorry, that time was just taken and the day is now full. Please choose another date."}, nil
		}
		sess.State = string(StateAwaitTime)
		return turn{reply: "Sorry, that time was just taken. Please pick another one.", options: uc.timeOptions(times)}, nil

	case errors.Is(err, create_booking.ErrServiceNotFound),
		errors.Is(err, create_booking.ErrServiceInactive),
		errors.Is(err, create_booking.ErrStaffNotFound),
		errors.Is(err, create_booking.ErrNotQualified),
		errors.Is(err, create_booking.ErrInvalidInput):
		uc.logger.Warn("ChatBooking: conversation %s: booking rejected: %v", sess.ConversationID, err)
		resetSession(sess)
		return uc.askService(ctx, sess, "Sorry, this booking is no longer possible. Let's start over. Which service would you like?")
	}

	return turn{}, fmt.Errorf("%w: create booking: %v", ErrInternal, err)
}

// freeTimes свободные начала окон: у выбранного мастера или у любого квалифицированного
func (uc *UseCase) freeTimes(ctx context.Context, sess *session.Session, date time.Time) ([]types.TimeOfDay, error) {
	serviceID, err := strconv.ParseInt(sess.Get(keyServiceID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: broken session: service id: %v", ErrInternal, err)
	}
	duration, err := strconv.Atoi(sess.Get(keyDuration))
	if err != nil {
		return nil, fmt.Errorf("%w: broken session: duration: %v", ErrInternal, err)
	}

	var grids [][]domain.TimeSlot
	if staffID := sess.Get(keyStaffID); staffID == domain.NoPreference {
		resp, err := uc.staff.Execute(ctx, &get_qualified_staff.Request{
			ServiceID:       serviceID,
			Date:            date,
			DurationMinutes: duration,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: qualified staff: %v", ErrInternal, err)
		}
		for _, s := range resp.Staff {
			grids = append(grids, s.Slots)
		}
	} else {
		id, err := strconv.ParseInt(staffID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: broken session: staff id: %v", ErrInternal, err)
		}
		resp, err := uc.slots.Execute(ctx, &get_available_slots.Request{
			StaffID:         id,
			Date:            date,
			DurationMinutes: duration,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: available slots: %v", ErrInternal, err)
		}
		grids = append(grids, resp.Slots)
	}

	seen := make(map[types.TimeOfDay]struct{})
	var times []types.TimeOfDay
	for _, grid := range grids {
		for _, s := range grid {
			if !s.Available {
				continue
			}
			if _, ok := seen[s.StartTime]; ok {
				continue
			}
			seen[s.StartTime] = struct{}{}
			times = append(times, s.StartTime)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times, nil
}

func (uc *UseCase) bookingRequest(sess *session.Session) (*create_booking.Request, error) {
	serviceID, err := strconv.ParseInt(sess.Get(keyServiceID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: broken session: service id: %v", ErrInternal, err)
	}
	date, err := uc.sessionDate(sess)
	if err != nil {
		return nil, err
	}
	start, err := types.ParseTimeOfDay(sess.Get(keyTime))
	if err != nil {
		return nil, fmt.Errorf("%w: broken session: time: %v", ErrInternal, err)
	}

	req := &create_booking.Request{
		Customer: create_booking.Customer{
			Name:  sess.Get(keyName),
			Phone: sess.Get(keyPhone),
		},
		ServiceID: serviceID,
		Date:      date,
		StartTime: start,
	}

	if staffID := sess.Get(keyStaffID); staffID == domain.NoPreference {
		req.NoPreference = true
	} else {
		id, err := strconv.ParseInt(staffID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: broken session: staff id: %v", ErrInternal, err)
		}
		req.StaffID = &id
	}
	return req, nil
}

func (uc *UseCase) location() *time.Location {
	if uc.cfg.Location == nil {
		return time.UTC
	}
	return uc.cfg.Location
}

func (uc *UseCase) today() time.Time {
	return domain.DateOnly(uc.timeProvider.Now().In(uc.location()))
}

func (uc *UseCase) sessionDate(sess *session.Session) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateFormat, sess.Get(keyDate), uc.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: broken session: date: %v", ErrInternal, err)
	}
	return date, nil
}

func (uc *UseCase) timeOptions(times []types.TimeOfDay) []string {
	if len(times) > uc.cfg.MaxOptions {
		times = times[:uc.cfg.MaxOptions]
	}
	result := make([]string, 0, len(times))
	for _, t := range times {
		result = append(result, t.String())
	}
	return result
}

func parseDate(text string, today time.Time) (time.Time, bool) {
	switch strings.ToLower(text) {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	}
	date, err := time.ParseInLocation(domain.DateFormat, text, today.Location())
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func containsTime(times []types.TimeOfDay, t types.TimeOfDay) bool {
	for _, v := range times {
		if v == t {
			return true
		}
	}
	return false
}

func summary(sess *session.Session) string {
	staff := sess.Get(keyStaffName)
	if sess.Get(keyStaffID) == domain.NoPreference || staff == "" {
		staff = "any available stylist"
	}
	return fmt.Sprintf("%s with %s on %s at %s for %s (%s).",
		sess.Get(keyServiceName), staff, sess.Get(keyDate), sess.Get(keyTime),
		sess.Get(keyName), sess.Get(keyPhone))
}

func saveOptions(sess *session.Session, opts []option) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("%w: encode options: %v", ErrInternal, err)
	}
	sess.Set(keyOptions, string(raw))
	return nil
}

func loadOptions(sess *session.Session) []option {
	var opts []option
	if raw := sess.Get(keyOptions); raw != "" {
		_ = json.Unmarshal([]byte(raw), &opts)
	}
	return opts
}

// pick выбирает вариант по номеру из списка или по названию
func pick(opts []option, text string) (option, bool) {
	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(opts) {
			return opts[n-1], true
		}
		return option{}, false
	}
	for _, o := range opts {
		if strings.EqualFold(o.Label, text) || strings.HasPrefix(strings.ToLower(o.Label), strings.ToLower(text)+" (") {
			return o, true
		}
	}
	return option{}, false
}

func numbered(opts []option) []string {
	result := make([]string, 0, len(opts))
	for i, o := range opts {
		result = append(result, fmt.Sprintf("%d. %s", i+1, o.Label))
	}
	return result
}
