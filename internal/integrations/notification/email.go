package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailConfig параметры SMTP
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
	Timeout  time.Duration
}

// EmailSender отправляет подтверждение на email клиента, если он указан
type EmailSender struct {
	from    string
	timeout time.Duration
	dialer  mailDialer
}

// NewEmailSender создает отправителя через gomail
func NewEmailSender(cfg EmailConfig) *EmailSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.UseTLS
	if cfg.UseTLS {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &EmailSender{from: strings.TrimSpace(cfg.From), timeout: timeout, dialer: d}
}

func (s *EmailSender) Name() string { return "email" }

// SendBookingConfirmation отправляет письмо. Без email клиента ничего не делает
func (s *EmailSender) SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) error {
	if msg.CustomerEmail == nil || strings.TrimSpace(*msg.CustomerEmail) == "" {
		return nil
	}

	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	wait := s.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left > 0 && left < wait {
			wait = left
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: smtp: %v", ErrDelivery, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrDelivery, ctx.Err())
	case <-timer.C:
		return fmt.Errorf("%w: smtp: %v", ErrDelivery, context.DeadlineExceeded)
	}
}

func (s *EmailSender) buildMessage(msg BookingConfirmation) (*gomail.Message, error) {
	if s.from == "" {
		return nil, fmt.Errorf("%w: from is required", ErrInvalidMessage)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", strings.TrimSpace(*msg.CustomerEmail))
	m.SetHeader("Subject", fmt.Sprintf("Booking #%d confirmed", msg.AppointmentID))
	m.SetBody("text/plain", msg.Text())
	return m, nil
}
