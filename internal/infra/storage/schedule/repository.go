package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий перерывов и отсутствий мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBreaks возвращает ежедневные перерывы мастера, упорядоченные по времени начала
func (r *Repository) GetBreaks(ctx context.Context, staffID int64) ([]*domain.Break, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "staff_id", "start_time", "end_time", "label").
		From("staff_breaks").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Break, 0)
	for rows.Next() {
		var b domain.Break
		if err := rows.Scan(&b.ID, &b.StaffID, &b.Start, &b.End, &b.Label); err != nil {
			return nil, fmt.Errorf("%w: GetBreaks - scan break: %v", ErrScanRow, err)
		}
		result = append(result, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// CreateBreak добавляет ежедневный перерыв мастеру
func (r *Repository) CreateBreak(ctx context.Context, b *domain.Break) (*domain.Break, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_breaks").
		Columns("staff_id", "start_time", "end_time", "label").
		Values(b.StaffID, b.Start, b.End, b.Label).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBreak - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateBreak - execute insert: %v", ErrExecQuery, err)
	}

	return b, nil
}

// DeleteBreak удаляет перерыв мастера
func (r *Repository) DeleteBreak(ctx context.Context, staffID, breakID int64) error {
	return r.delete(ctx, "staff_breaks", staffID, breakID, ErrBreakNotFound)
}

// GetLeaves возвращает отсутствия мастера, затрагивающие дату.
// date задается в часовом поясе салона
func (r *Repository) GetLeaves(ctx context.Context, staffID int64, date time.Time) ([]*domain.LeaveRecord, error) {
	return r.listLeaves(ctx, "GetLeaves", leavesSelect(staffID, date, date))
}

// ListLeaves возвращает отсутствия мастера, пересекающие период [from, to]
func (r *Repository) ListLeaves(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.LeaveRecord, error) {
	return r.listLeaves(ctx, "ListLeaves", leavesSelect(staffID, from, to))
}

// leavesSelect отсутствия, пересекающие дни [from, to] включительно.
// Полные дни сравниваются по датам, частичные по полуоткрытому интервалу
func leavesSelect(staffID int64, from, to time.Time) squirrel.SelectBuilder {
	fromDay := domain.DateOnly(from)
	afterTo := domain.DateOnly(to).AddDate(0, 0, 1)

	return psqlbuilder.Select(
		"id", "staff_id", "kind", "full_day", "start_date", "end_date", "start_at", "end_at", "reason",
	).
		From("staff_leaves").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.Expr("full_day"),
				squirrel.Expr("start_date <= ?::date", to.Format(domain.DateFormat)),
				squirrel.Expr("end_date >= ?::date", fromDay.Format(domain.DateFormat)),
			},
			squirrel.And{
				squirrel.Expr("NOT full_day"),
				squirrel.Lt{"start_at": afterTo},
				squirrel.Gt{"end_at": fromDay},
			},
		}).
		OrderBy("id ASC")
}

// CreateLeave регистрирует отпуск или период недоступности
func (r *Repository) CreateLeave(ctx context.Context, l *domain.LeaveRecord) (*domain.LeaveRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var startDate, endDate interface{}
	if l.FullDay {
		startDate = l.StartDate.Format(domain.DateFormat)
		endDate = l.EndDate.Format(domain.DateFormat)
	}

	query, args, err := psqlbuilder.Insert("staff_leaves").
		Columns("staff_id", "kind", "full_day", "start_date", "end_date", "start_at", "end_at", "reason").
		Values(l.StaffID, string(l.Kind), l.FullDay, startDate, endDate, l.StartAt, l.EndAt, l.Reason).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateLeave - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&l.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateLeave - execute insert: %v", ErrExecQuery, err)
	}

	return l, nil
}

// DeleteLeave удаляет запись об отсутствии
func (r *Repository) DeleteLeave(ctx context.Context, staffID, leaveID int64) error {
	return r.delete(ctx, "staff_leaves", staffID, leaveID, ErrLeaveNotFound)
}

func (r *Repository) listLeaves(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.LeaveRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.LeaveRecord, 0)
	for rows.Next() {
		var (
			l                  domain.LeaveRecord
			kind               string
			startDate, endDate sql.NullTime
			startAt, endAt     sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.StaffID, &kind, &l.FullDay, &startDate, &endDate, &startAt, &endAt, &l.Reason); err != nil {
			return nil, fmt.Errorf("%w: %s - scan leave: %v", ErrScanRow, op, err)
		}

		l.Kind = domain.LeaveKind(kind)
		l.StartDate = startDate.Time
		l.EndDate = endDate.Time
		if startAt.Valid {
			l.StartAt = &startAt.Time
		}
		if endAt.Valid {
			l.EndAt = &endAt.Time
		}
		result = append(result, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return result, nil
}

func (r *Repository) delete(ctx context.Context, table string, staffID, id int64, notFound error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id, "staff_id": staffID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete %s - build delete query: %v", ErrBuildQuery, table, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete %s - execute delete: %v", ErrExecQuery, table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete %s - get rows affected: %v", ErrExecQuery, table, err)
	}
	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
