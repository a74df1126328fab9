package staff

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"s.id",
		"s.name",
		"s.role",
		"s.is_active",
		"s.emergency_unavailable",
		"s.location_id",
		"s.working_days",
		"s.work_start",
		"s.work_end",
		"COALESCE(array_agg(sk.service_id ORDER BY sk.service_id) FILTER (WHERE sk.service_id IS NOT NULL), '{}') AS skills",
	).
		From("staff s").
		LeftJoin("staff_skills sk ON sk.staff_id = s.id").
		GroupBy("s.id")
}

// GetByID получает мастера вместе с навыками
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	member, err := scanStaff(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan staff: %v", ErrScanRow, err)
	}

	return member, nil
}

// ListBookable возвращает мастеров с бронируемой ролью, упорядоченных по ID.
// Активность и навыки проверяет фильтр квалификации
func (r *Repository) ListBookable(ctx context.Context, locationID *int64) ([]*domain.StaffMember, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := r.baseSelect().
		Where(squirrel.Eq{"s.role": string(domain.RoleStylist)}).
		OrderBy("s.id ASC")

	if locationID != nil {
		builder = builder.Where(squirrel.Eq{"s.location_id": *locationID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.StaffMember, 0)
	for rows.Next() {
		member, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBookable - scan staff: %v", ErrScanRow, err)
		}
		result = append(result, member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBookable - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStaff(row scanner) (*domain.StaffMember, error) {
	var (
		member     domain.StaffMember
		role       string
		locationID sql.NullInt64
		days       pq.Int64Array
		skills     pq.Int64Array
	)

	err := row.Scan(
		&member.ID,
		&member.Name,
		&role,
		&member.IsActive,
		&member.EmergencyUnavailable,
		&locationID,
		&days,
		&member.WorkingHours.Start,
		&member.WorkingHours.End,
		&skills,
	)
	if err != nil {
		return nil, err
	}

	member.Role = domain.StaffRole(role)
	if locationID.Valid {
		member.LocationID = &locationID.Int64
	}
	member.Skills = []int64(skills)
	member.WorkingDays = toWeekdays(days)

	return &member, nil
}

// toWeekdays переводит номера дней ISO (1 = понедельник, 7 = воскресенье) в time.Weekday
func toWeekdays(days []int64) []time.Weekday {
	result := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < 1 || d > 7 {
			continue
		}
		result = append(result, time.Weekday(d%7))
	}
	return result
}
