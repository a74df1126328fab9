package chat_booking

import "errors"

var (
	// ErrInvalidInput возвращается при пустом ID разговора или сообщении
	ErrInvalidInput = errors.New("chat_booking: invalid input data")

	// ErrSession возвращается при ошибке хранилища сессий
	ErrSession = errors.New("chat_booking: session store error")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("chat_booking: internal error")
)
