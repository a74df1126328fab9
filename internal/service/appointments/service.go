package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	staffRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

const maxCancellationReasonLength = 500

// Service сервис для работы с записями после бронирования
type Service struct {
	appointmentRepo AppointmentRepository
	staffRepo       StaffRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	staffRepo StaffRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		staffRepo:       staffRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetCustomerAppointments получает историю записей клиента.
// Опционально фильтрует по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: fetching appointments for customer=%d, status=%v", req.CustomerID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerAppointments: fetched %d appointments for customer=%d", len(appointments), req.CustomerID)
	return &models.AppointmentListResponse{Appointments: models.FromDomainAppointmentList(appointments)}, nil
}

// GetStaffDay получает записи мастера за день, упорядоченные по времени начала
func (s *Service) GetStaffDay(ctx context.Context, req *models.GetStaffDayRequest) (*models.StaffDayResponse, error) {
	s.logger.Info("GetStaffDay: fetching appointments for staff=%d, date=%s", req.StaffID, req.Date.Format(domain.DateFormat))

	staff, err := s.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("GetStaffDay: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetStaffDay: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffDay - failed to get staff: %v", ErrInternal, err)
	}

	appointments, err := s.appointmentRepo.GetByStaffAndDate(ctx, domain.AppointmentFilter{
		StaffID:          req.StaffID,
		Date:             domain.DateOnly(req.Date),
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("GetStaffDay: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffDay - repository error: %v", ErrInternal, err)
	}

	return &models.StaffDayResponse{
		StaffID:      staff.ID,
		StaffName:    staff.Name,
		Date:         req.Date.Format(domain.DateFormat),
		Appointments: models.FromDomainAppointmentList(appointments),
	}, nil
}

// Cancel отменяет запись. Отменить можно только запись, которая еще не началась.
// Отмененная запись остается в истории и освобождает окно мастера
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d", id)

	reason := strings.TrimSpace(req.Reason)
	if len(reason) > maxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, maxCancellationReasonLength)
	}

	var result *domain.Appointment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appointment.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(ctx, id, reason); err != nil {
			return err
		}

		result, err = s.appointmentRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapWriteError("Cancel", id, err)
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", id)
	return models.FromDomainAppointment(result), nil
}

// UpdateStatus меняет статус записи по разрешенным переходам:
// pending -> confirmed, confirmed -> in_service/no_show, in_service -> completed
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: appointment id=%d -> %s", id, req.Status)

	next, err := models.ToDomainStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}
	if next == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: use cancel to cancel an appointment", ErrInvalidInput)
	}

	var result *domain.Appointment
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !appointment.Status.CanTransitionTo(next) {
			s.logger.Warn("UpdateStatus: appointment id=%d: %s -> %s is not allowed", id, appointment.Status, next)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, next)
		}

		if err := s.appointmentRepo.UpdateStatus(ctx, id, next); err != nil {
			return err
		}

		result, err = s.appointmentRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapWriteError("UpdateStatus", id, err)
	}

	s.logger.Info("UpdateStatus: appointment id=%d is now %s", id, next)
	return models.FromDomainAppointment(result), nil
}

func (s *Service) mapWriteError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, ErrCannotCancel), errors.Is(err, ErrInvalidTransition):
		return err
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		s.logger.Warn("%s: appointment id=%d not found", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
