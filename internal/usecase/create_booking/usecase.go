package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	staffRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notification"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/tracing"
)

// maxAttempts одна повторная попытка со следующим кандидатом при проигранной гонке
const maxAttempts = 2

// Config параметры use case
type Config struct {
	PhoneRegion string        // регион для номеров без кода страны
	Timeout     time.Duration // ограничение на весь запрос бронирования
}

// UseCase use case для создания записи
type UseCase struct {
	services     ServiceCatalog
	staff        StaffRepository
	appointments AppointmentRepository
	customers    CustomerDirectory
	loader       ConstraintLoader
	dispatcher   Dispatcher
	notifier     NotificationGateway
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	cfg          Config
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	services ServiceCatalog,
	staff StaffRepository,
	appointments AppointmentRepository,
	customers CustomerDirectory,
	loader ConstraintLoader,
	dispatcher Dispatcher,
	notifier NotificationGateway,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *UseCase {
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = domain.DefaultPhoneRegion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultBookingTimeoutSeconds * time.Second
	}
	return &UseCase{
		services:     services,
		staff:        staff,
		appointments: appointments,
		customers:    customers,
		loader:       loader,
		dispatcher:   dispatcher,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		cfg:          cfg,
	}
}

// Execute выполняет use case создания записи.
// Повторная проверка окна и вставка выполняются в сериализуемой транзакции,
// а пересечение окон дополнительно запрещено ограничением БД
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()

	ctx, span := tracing.Start(ctx, "create_booking.Execute",
		attribute.Int64("service.id", req.ServiceID),
		attribute.Bool("booking.no_preference", req.NoPreference),
	)
	defer func() { tracing.End(span, err) }()

	uc.logger.Info("CreateBooking: service=%d, staff=%s, date=%s, time=%s",
		req.ServiceID, staffLabel(req), req.Date.Format(domain.DateFormat), req.StartTime)

	resp, err = uc.execute(ctx, req)
	uc.metrics.IncBooking(outcomeOf(err))
	return resp, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	phone, err := normalizePhone(req.Customer.Phone, uc.cfg.PhoneRegion)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	if err := validateDate(req.Date, req.StartTime, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 3. Кандидаты: выбранный мастер или ранжированный список диспетчера
	candidates, err := uc.candidates(ctx, req, service)
	if err != nil {
		return nil, err
	}

	// 4. Клиент (идемпотентно по телефону)
	customer, err := uc.customers.FindOrCreateByPhone(ctx, &domain.Customer{
		Name:   strings.TrimSpace(req.Customer.Name),
		Phone:  phone,
		Email:  trimOptional(req.Customer.Email),
		Gender: trimOptional(req.Customer.Gender),
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve customer phone=%s: %v", phone, err)
		return nil, fmt.Errorf("%w: failed to resolve customer: %v", ErrInternal, err)
	}

	// 5. Запись с повторной попыткой для следующего кандидата
	attempts := 1
	if req.NoPreference {
		attempts = maxAttempts
	}
	if attempts > len(candidates) {
		attempts = len(candidates)
	}

	var (
		created *domain.Appointment
		chosen  scheduling.Candidate
	)
	for i := 0; i < attempts; i++ {
		chosen = candidates[i]
		created, err = uc.book(ctx, req, service, customer, chosen)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrConflict) {
			return nil, err
		}
		if i+1 < attempts {
			uc.metrics.IncBooking(outcomeRetried)
			uc.logger.Warn("CreateBooking: conflict for staff id=%d, retrying with staff id=%d",
				chosen.Staff.ID, candidates[i+1].Staff.ID)
			continue
		}
		uc.logger.Warn("CreateBooking: conflict for staff id=%d, giving up: %v", chosen.Staff.ID, err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%d for staff id=%d",
		created.ID, chosen.Staff.ID)

	resp := &Response{
		AppointmentID: created.ID,
		Date:          req.Date,
		StartTime:     created.StartTime,
		Status:        string(created.Status),
		Notes:         created.Notes,
		Service: ServiceInfo{
			ID:              service.ID,
			Name:            service.Name,
			DurationMinutes: created.DurationMinutes,
			Price:           service.Price,
		},
		Staff:     StaffInfo{ID: chosen.Staff.ID, Name: chosen.Staff.Name},
		Customer:  CustomerInfo{ID: customer.ID, Name: customer.Name, Phone: customer.Phone},
		CreatedAt: created.CreatedAt,
	}

	// 6. Подтверждение после фиксации: в фоне, ошибки только логируются
	uc.notifier.SendBookingConfirmation(ctx, notification.BookingConfirmation{
		AppointmentID:   resp.AppointmentID,
		Date:            resp.Date,
		StartTime:       resp.StartTime,
		Status:          resp.Status,
		ServiceName:     service.Name,
		DurationMinutes: resp.Service.DurationMinutes,
		Price:           service.Price,
		StaffName:       chosen.Staff.Name,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerEmail:   customer.Email,
	})

	return resp, nil
}

// candidates возвращает мастеров, к которым можно попробовать записаться, в порядке предпочтения
func (uc *UseCase) candidates(ctx context.Context, req *Request, service *domain.Service) ([]scheduling.Candidate, error) {
	if req.NoPreference {
		ranked, err := uc.dispatcher.Rank(ctx, scheduling.DispatchRequest{
			ServiceID:       service.ID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			LocationID:      req.LocationID,
		})
		if err != nil {
			if stage, ok := scheduling.StageOf(err); ok {
				uc.metrics.IncDispatchStage(string(stage))
				uc.logger.Warn("CreateBooking: no staff available at stage=%s", stage)
				return nil, err
			}
			uc.logger.Error("CreateBooking: dispatcher failed: %v", err)
			return nil, fmt.Errorf("%w: dispatcher: %v", ErrInternal, err)
		}
		return ranked, nil
	}

	staffID := *req.StaffID
	member, err := uc.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}

	if !scheduling.IsQualified(member, service.ID) {
		uc.logger.Warn("CreateBooking: staff id=%d is not qualified for service id=%d", staffID, service.ID)
		return nil, ErrNotQualified
	}

	dc, err := uc.loader.Load(ctx, member, req.Date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to load constraints for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: failed to load constraints: %v", ErrInternal, err)
	}

	window := scheduling.NewInterval(req.StartTime, service.DurationMinutes)
	if reason := dc.CheckWindow(window); reason != domain.ReasonNone {
		uc.logger.Warn("CreateBooking: staff id=%d window %s is blocked: %s", staffID, window, reason)
		return nil, fmt.Errorf("%w: %s", ErrSlotTaken, reason)
	}

	return []scheduling.Candidate{{Staff: member, Constraints: dc}}, nil
}

// book повторно проверяет окно кандидата и создает запись в одной сериализуемой транзакции
func (uc *UseCase) book(
	ctx context.Context,
	req *Request,
	service *domain.Service,
	customer *domain.Customer,
	candidate scheduling.Candidate,
) (*domain.Appointment, error) {
	window := scheduling.NewInterval(req.StartTime, service.DurationMinutes)

	var result *domain.Appointment

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Записи мастера читаются с блокировкой (FOR UPDATE)
		appointments, err := uc.appointments.GetByStaffAndDate(txCtx, domain.AppointmentFilter{
			StaffID: candidate.Staff.ID,
			Date:    req.Date,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		dc := candidate.Constraints.WithAppointments(appointments)
		if reason := dc.CheckWindow(window); reason != domain.ReasonNone {
			return fmt.Errorf("%w: staff id=%d window %s became %s", ErrConflict, candidate.Staff.ID, window, reason)
		}

		created, err := uc.appointments.Create(txCtx, &domain.Appointment{
			StaffID:         candidate.Staff.ID,
			ServiceID:       service.ID,
			CustomerID:      customer.ID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			Notes:           trimOptional(req.Notes),
		})
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, ErrConflict):
		return nil, err
	case appointmentRepo.IsConflict(err):
		return nil, fmt.Errorf("%w: staff id=%d: %v", ErrConflict, candidate.Staff.ID, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: %v", err)
		return nil, err
	default:
		uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
		return nil, fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
	}
}

func staffLabel(req *Request) string {
	if req.StaffID != nil {
		return fmt.Sprintf("%d", *req.StaffID)
	}
	return domain.NoPreference
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeCreated
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidDate), errors.Is(err, ErrServiceInactive):
		return outcomeInvalid
	case errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrStaffNotFound):
		return outcomeNotFound
	case errors.Is(err, ErrNotQualified):
		return outcomeNotQualified
	case errors.Is(err, ErrSlotTaken):
		return outcomeSlotTaken
	case errors.Is(err, scheduling.ErrNoAvailability):
		return outcomeNoAvailability
	case errors.Is(err, ErrConflict):
		return outcomeConflict
	default:
		return outcomeError
	}
}
