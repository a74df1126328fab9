package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Multi рассылает подтверждение по всем каналам.
// Ошибка одного канала не мешает остальным
type Multi struct {
	channels []Channel
	metrics  Metrics
}

// NewMulti объединяет каналы; nil-каналы пропускаются
func NewMulti(metrics Metrics, channels ...Channel) *Multi {
	m := &Multi{metrics: metrics}
	for _, ch := range channels {
		if ch != nil {
			m.channels = append(m.channels, ch)
		}
	}
	return m
}

func (m *Multi) Name() string { return "multi" }

// Len количество подключенных каналов
func (m *Multi) Len() int { return len(m.channels) }

// SendBookingConfirmation отправляет по всем каналам и объединяет ошибки
func (m *Multi) SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.SendBookingConfirmation(ctx, msg); err != nil {
			m.count(ch.Name(), resultFailed)
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		m.count(ch.Name(), resultOK)
	}
	return errors.Join(errs...)
}

func (m *Multi) count(channel, result string) {
	if m.metrics != nil {
		m.metrics.IncNotification(channel, result)
	}
}

// Async отправляет подтверждения в фоне с ограничением по времени.
// Ошибки логируются и не возвращаются вызывающему
type Async struct {
	next    Channel
	timeout time.Duration
	log     Logger
	metrics Metrics

	wg sync.WaitGroup
}

// NewAsync создает фоновую обертку над каналом
func NewAsync(next Channel, timeout time.Duration, log Logger, metrics Metrics) *Async {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Async{next: next, timeout: timeout, log: log, metrics: metrics}
}

// SendBookingConfirmation запускает доставку и сразу возвращает управление.
// Контекст запроса не отменяет доставку, но его значения (trace) сохраняются
func (a *Async) SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) {
	if a.next == nil {
		if a.metrics != nil {
			a.metrics.IncNotification("none", resultSkip)
		}
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		defer func() {
			if p := recover(); p != nil {
				a.log.Error("Notification panic for appointment_id=%d: %v", msg.AppointmentID, p)
			}
		}()

		if err := a.next.SendBookingConfirmation(sendCtx, msg); err != nil {
			if !errors.Is(err, ErrDelivery) {
				err = fmt.Errorf("%w: %w", ErrDelivery, err)
			}
			a.log.Warn("Booking confirmation not delivered for appointment_id=%d: %v", msg.AppointmentID, err)
			return
		}
		a.log.Info("Booking confirmation dispatched for appointment_id=%d", msg.AppointmentID)
	}()
}

// Wait ждет завершения всех начатых отправок (при остановке сервиса)
func (a *Async) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
