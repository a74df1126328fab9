package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается, когда дата или время записи уже прошли
	ErrInvalidDate = errors.New("create_booking: booking date is in the past")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена
	ErrServiceInactive = errors.New("create_booking: service is not active")

	// ErrStaffNotFound возвращается, когда выбранный мастер не найден
	ErrStaffNotFound = errors.New("create_booking: staff not found")

	// ErrNotQualified возвращается, когда выбранный мастер не оказывает услугу
	ErrNotQualified = errors.New("create_booking: not qualified")

	// ErrSlotTaken возвращается, когда окно выбранного мастера занято
	ErrSlotTaken = errors.New("create_booking: slot taken")

	// ErrConflict возвращается, когда окно заняли одновременно с нами (проигранная гонка при фиксации)
	ErrConflict = errors.New("create_booking: booking conflict")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
