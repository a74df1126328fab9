package schedule

import "errors"

var (
	// ErrBreakNotFound возвращается, когда перерыв не найден
	ErrBreakNotFound = errors.New("schedule.repository: break not found")

	// ErrLeaveNotFound возвращается, когда запись об отсутствии не найдена
	ErrLeaveNotFound = errors.New("schedule.repository: leave not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
