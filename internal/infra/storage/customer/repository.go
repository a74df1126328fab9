package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "phone", "email", "gender").
		From("customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Customer
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Gender)
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan customer: %v", ErrScanRow, err)
	}

	return &c, nil
}

// FindOrCreateByPhone возвращает клиента с данным телефоном (E.164), создавая его при необходимости.
// Имя и контакты существующего клиента не перезаписываются
func (r *Repository) FindOrCreateByPhone(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := upsertByPhone(c).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOrCreateByPhone - build insert query: %v", ErrBuildQuery, err)
	}

	var found domain.Customer
	err = executor.QueryRowContext(ctx, query, args...).Scan(&found.ID, &found.Name, &found.Phone, &found.Email, &found.Gender)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOrCreateByPhone - execute upsert: %v", ErrExecQuery, err)
	}

	return &found, nil
}

// upsertByPhone вставка клиента; при конфликте по телефону возвращает существующую запись.
// Пустой UPDATE нужен, чтобы RETURNING отдал строку и в случае конфликта
func upsertByPhone(c *domain.Customer) squirrel.InsertBuilder {
	return psqlbuilder.Insert("customers").
		Columns("name", "phone", "email", "gender").
		Values(c.Name, c.Phone, c.Email, c.Gender).
		Suffix("ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone RETURNING id, name, phone, email, gender")
}
