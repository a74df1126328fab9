package schedule

import "errors"

var (
	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = errors.New("staff not found")

	// ErrBreakNotFound возвращается, когда перерыв не найден
	ErrBreakNotFound = errors.New("break not found")

	// ErrLeaveNotFound возвращается, когда отсутствие не найдено
	ErrLeaveNotFound = errors.New("leave not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
