package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	staffRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// UseCase use case для получения сетки слотов мастера на дату
type UseCase struct {
	calculator   Calculator
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(calculator Calculator, logger Logger, cfg Config) *UseCase {
	if cfg.StepMinutes <= 0 {
		cfg.StepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		calculator:   calculator,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: staff=%d, date=%s, duration=%d",
		req.StaffID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Расчет доступности (источники ограничений читаются параллельно)
	avail, err := uc.calculator.Calculate(ctx, scheduling.Query{
		StaffID:         req.StaffID,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		StepMinutes:     uc.cfg.StepMinutes,
		Now:             uc.timeProvider.Now().In(req.Date.Location()),
	})
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to calculate availability for staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to calculate availability: %v", ErrInternal, err)
	}

	// 3. Раскладываем на сетку салона
	slots := scheduling.BuildGrid(avail, uc.cfg.Window, uc.cfg.StepMinutes)

	resp := &Response{
		StaffID:         avail.Staff.ID,
		StaffName:       avail.Staff.Name,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		StepMinutes:     uc.cfg.StepMinutes,
		DayReason:       avail.DayReason,
		Slots:           slots,
	}
	for _, s := range slots {
		if s.Available {
			resp.AvailableCount++
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots (%d available) for staff=%d, date=%s",
		len(slots), resp.AvailableCount, req.StaffID, req.Date.Format(domain.DateFormat))

	return resp, nil
}
