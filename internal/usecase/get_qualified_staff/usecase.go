package get_qualified_staff

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/tracing"
)

// UseCase use case для получения квалифицированных мастеров со слотами
type UseCase struct {
	services     ServiceCatalog
	staff        StaffRepository
	loader       ConstraintLoader
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(services ServiceCatalog, staff StaffRepository, loader ConstraintLoader, logger Logger, cfg Config) *UseCase {
	if cfg.StepMinutes <= 0 {
		cfg.StepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		services:     services,
		staff:        staff,
		loader:       loader,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Execute возвращает мастеров, которые могут выполнить услугу, с сеткой слотов каждого.
// Мастер без свободных окон остается в списке с заблокированной сеткой
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracing.Start(ctx, "get_qualified_staff.Execute",
		attribute.Int64("service.id", req.ServiceID),
	)
	defer func() { tracing.End(span, err) }()

	uc.logger.Info("GetQualifiedStaff: service=%d, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetQualifiedStaff: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetQualifiedStaff: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetQualifiedStaff: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetQualifiedStaff: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = service.DurationMinutes
	}

	// 3. Бронируемые мастера, отфильтрованные по навыку
	all, err := uc.staff.ListBookable(ctx, req.LocationID)
	if err != nil {
		uc.logger.Error("GetQualifiedStaff: failed to list staff: %v", err)
		return nil, fmt.Errorf("%w: failed to list staff: %v", ErrInternal, err)
	}
	qualified := scheduling.FilterQualified(all, service.ID)

	resp = &Response{
		ServiceID:       service.ID,
		ServiceName:     service.Name,
		Date:            req.Date,
		DurationMinutes: duration,
		StepMinutes:     uc.cfg.StepMinutes,
		Staff:           make([]StaffSlots, 0, len(qualified)),
	}
	if len(qualified) == 0 {
		uc.logger.Info("GetQualifiedStaff: no qualified staff for service=%d", service.ID)
		return resp, nil
	}

	// 4. Ограничения всех мастеров читаются параллельно
	constraints, err := uc.loader.LoadMany(ctx, qualified, req.Date)
	if err != nil {
		uc.logger.Error("GetQualifiedStaff: failed to load constraints: %v", err)
		return nil, fmt.Errorf("%w: failed to load constraints: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now().In(req.Date.Location())
	for _, dc := range constraints {
		avail := scheduling.Compute(dc, duration, uc.cfg.StepMinutes, now)
		grid := scheduling.BuildGrid(avail, uc.cfg.Window, uc.cfg.StepMinutes)

		item := StaffSlots{
			StaffID:   dc.Staff.ID,
			StaffName: dc.Staff.Name,
			Skills:    dc.Staff.Skills,
			DayReason: avail.DayReason,
			Slots:     grid,
		}
		for _, s := range grid {
			if s.Available {
				item.AvailableCount++
			}
		}
		resp.Staff = append(resp.Staff, item)
	}

	uc.logger.Info("GetQualifiedStaff: %d qualified staff for service=%d, date=%s",
		len(resp.Staff), service.ID, req.Date.Format(domain.DateFormat))

	return resp, nil
}
