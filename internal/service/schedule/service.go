package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/schedule"
	staffRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SalonBooking/internal/service/schedule/models"
)

// maxSchedulePeriodDays ограничение периода выборки расписания
const maxSchedulePeriodDays = 366

// Service сервис управления расписанием мастеров: перерывы и отсутствия
type Service struct {
	scheduleRepo ScheduleRepository
	staffRepo    StaffRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(scheduleRepo ScheduleRepository, staffRepo StaffRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		staffRepo:    staffRepo,
		logger:       logger,
	}
}

// GetSchedule возвращает рабочие часы, перерывы и отсутствия мастера за период [From, To]
func (s *Service) GetSchedule(ctx context.Context, req *models.GetScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: staff=%d, period=%s to %s",
		req.StaffID, req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	if req.To.Before(req.From) {
		return nil, fmt.Errorf("%w: period end is before start", ErrInvalidInput)
	}
	if req.To.Sub(req.From).Hours() > 24*maxSchedulePeriodDays {
		return nil, fmt.Errorf("%w: period must not exceed %d days", ErrInvalidInput, maxSchedulePeriodDays)
	}

	staff, err := s.getStaff(ctx, "GetSchedule", req.StaffID)
	if err != nil {
		return nil, err
	}

	breaks, err := s.scheduleRepo.GetBreaks(ctx, req.StaffID)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get breaks for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetSchedule - breaks: %v", ErrInternal, err)
	}

	leaves, err := s.scheduleRepo.ListLeaves(ctx, req.StaffID, req.From, req.To)
	if err != nil {
		s.logger.Error("GetSchedule: failed to get leaves for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetSchedule - leaves: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(staff, breaks, leaves), nil
}

// AddBreak добавляет ежедневный перерыв. Перерыв должен лежать внутри рабочих часов
func (s *Service) AddBreak(ctx context.Context, staffID int64, req *models.CreateBreakRequest) (*models.BreakResponse, error) {
	s.logger.Info("AddBreak: staff=%d, %s-%s", staffID, req.Start, req.End)

	if !req.Start.Valid() || !req.End.Valid() || req.End <= req.Start {
		return nil, fmt.Errorf("%w: break end must be after start", ErrInvalidInput)
	}

	staff, err := s.getStaff(ctx, "AddBreak", staffID)
	if err != nil {
		return nil, err
	}
	if req.Start < staff.WorkingHours.Start || req.End > staff.WorkingHours.End {
		s.logger.Warn("AddBreak: break %s-%s is outside working hours of staff=%d", req.Start, req.End, staffID)
		return nil, fmt.Errorf("%w: break must be within working hours %s-%s",
			ErrInvalidInput, staff.WorkingHours.Start, staff.WorkingHours.End)
	}

	created, err := s.scheduleRepo.CreateBreak(ctx, &domain.Break{
		StaffID: staffID,
		Start:   req.Start,
		End:     req.End,
		Label:   req.Label,
	})
	if err != nil {
		s.logger.Error("AddBreak: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: AddBreak - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddBreak: created break id=%d for staff=%d", created.ID, staffID)
	resp := models.FromDomainBreak(created)
	return &resp, nil
}

// DeleteBreak удаляет перерыв мастера
func (s *Service) DeleteBreak(ctx context.Context, staffID, breakID int64) error {
	s.logger.Info("DeleteBreak: staff=%d, break=%d", staffID, breakID)

	if err := s.scheduleRepo.DeleteBreak(ctx, staffID, breakID); err != nil {
		if errors.Is(err, scheduleRepo.ErrBreakNotFound) {
			s.logger.Warn("DeleteBreak: break id=%d of staff=%d not found", breakID, staffID)
			return ErrBreakNotFound
		}
		s.logger.Error("DeleteBreak: repository error: %v", err)
		return fmt.Errorf("%w: DeleteBreak - repository error: %v", ErrInternal, err)
	}
	return nil
}

// AddLeave регистрирует отпуск, больничный или период недоступности
func (s *Service) AddLeave(ctx context.Context, staffID int64, req *models.CreateLeaveRequest) (*models.LeaveResponse, error) {
	s.logger.Info("AddLeave: staff=%d, kind=%s, fullDay=%t", staffID, req.Kind, req.FullDay)

	leave, err := toDomainLeave(staffID, req)
	if err != nil {
		s.logger.Warn("AddLeave: validation failed: %v", err)
		return nil, err
	}

	if _, err := s.getStaff(ctx, "AddLeave", staffID); err != nil {
		return nil, err
	}

	created, err := s.scheduleRepo.CreateLeave(ctx, leave)
	if err != nil {
		s.logger.Error("AddLeave: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: AddLeave - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddLeave: created leave id=%d for staff=%d", created.ID, staffID)
	resp := models.FromDomainLeave(created)
	return &resp, nil
}

// DeleteLeave удаляет отсутствие мастера
func (s *Service) DeleteLeave(ctx context.Context, staffID, leaveID int64) error {
	s.logger.Info("DeleteLeave: staff=%d, leave=%d", staffID, leaveID)

	if err := s.scheduleRepo.DeleteLeave(ctx, staffID, leaveID); err != nil {
		if errors.Is(err, scheduleRepo.ErrLeaveNotFound) {
			s.logger.Warn("DeleteLeave: leave id=%d of staff=%d not found", leaveID, staffID)
			return ErrLeaveNotFound
		}
		s.logger.Error("DeleteLeave: repository error: %v", err)
		return fmt.Errorf("%w: DeleteLeave - repository error: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) getStaff(ctx context.Context, op string, staffID int64) (*domain.StaffMember, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("%s: staff id=%d not found", op, staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("%s: failed to get staff id=%d: %v", op, staffID, err)
		return nil, fmt.Errorf("%w: %s - failed to get staff: %v", ErrInternal, op, err)
	}
	return staff, nil
}

func toDomainLeave(staffID int64, req *models.CreateLeaveRequest) (*domain.LeaveRecord, error) {
	kind, err := models.ToDomainLeaveKind(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	leave := &domain.LeaveRecord{StaffID: staffID, Kind: kind, FullDay: req.FullDay, Reason: req.Reason}

	if req.FullDay {
		if req.StartDate == nil || req.EndDate == nil {
			return nil, fmt.Errorf("%w: startDate and endDate are required for a full-day leave", ErrInvalidInput)
		}
		start, end := domain.DateOnly(*req.StartDate), domain.DateOnly(*req.EndDate)
		if end.Before(start) {
			return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
		}
		leave.StartDate, leave.EndDate = start, end
		return leave, nil
	}

	if req.StartAt == nil || req.EndAt == nil {
		return nil, fmt.Errorf("%w: startAt and endAt are required for a partial leave", ErrInvalidInput)
	}
	if !req.EndAt.After(*req.StartAt) {
		return nil, fmt.Errorf("%w: endAt must be after startAt", ErrInvalidInput)
	}
	leave.StartAt, leave.EndAt = req.StartAt, req.EndAt
	return leave, nil
}
