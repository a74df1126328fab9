package notification

import "errors"

var (
	// ErrDelivery возвращается, когда канал не смог доставить уведомление.
	// Ошибка только логируется и никогда не откатывает запись
	ErrDelivery = errors.New("notification: delivery failed")

	// ErrInvalidMessage возвращается, когда сообщение нельзя собрать из данных записи
	ErrInvalidMessage = errors.New("notification: invalid message")

	// ErrInvalidResponse возвращается при неожиданном ответе внешнего шлюза
	ErrInvalidResponse = errors.New("notification: invalid gateway response")
)
