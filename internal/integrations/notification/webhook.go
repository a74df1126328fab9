package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookClient отправляет подтверждение во внешний шлюз сообщений (SMS, мессенджеры) по HTTP
type WebhookClient struct {
	url        string
	token      string
	httpClient *http.Client
	log        Logger
}

// NewWebhookClient создает новый экземпляр клиента шлюза
func NewWebhookClient(url, token string, timeout time.Duration, log Logger) *WebhookClient {
	return &WebhookClient{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (c *WebhookClient) Name() string { return "webhook" }

type webhookRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
	event
}

// SendBookingConfirmation отправляет текст подтверждения на телефон клиента
func (c *WebhookClient) SendBookingConfirmation(ctx context.Context, msg BookingConfirmation) error {
	body, err := json.Marshal(webhookRequest{
		To:    msg.CustomerPhone,
		Body:  msg.Text(),
		event: newEvent(fmt.Sprintf("appointment-%d", msg.AppointmentID), msg),
	})
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", ErrInvalidMessage, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrDelivery, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.log.Info("Booking confirmation sent via webhook for appointment_id=%d", msg.AppointmentID)
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %w: gateway rejected message", ErrDelivery, ErrInvalidResponse)
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %w: unexpected status code %d: %s", ErrDelivery, ErrInvalidResponse, resp.StatusCode, string(raw))
	}
}
