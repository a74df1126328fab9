package appointment

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeExclusionViolation   = pq.ErrorCode("23P01")
	codeSerializationFailure = pq.ErrorCode("40001")
	codeDeadlockDetected     = pq.ErrorCode("40P01")
)

// IsConflict сообщает, что ошибка означает гонку за одно окно:
// сработало ограничение appointments_no_overlap или транзакция SERIALIZABLE не смогла зафиксироваться.
// Работает и для ошибок, обернутых txmanager при коммите
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOverlap) {
		return true
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case codeExclusionViolation, codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}
