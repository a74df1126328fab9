package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

//go:embed sql/*.up.sql
var files embed.FS

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Migration одна миграция схемы
type Migration struct {
	Version string
	SQL     string
}

// List возвращает встроенные миграции в порядке применения
func List() ([]Migration, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: read dir: %w", err)
	}

	var result []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		body, err := fs.ReadFile(files, "sql/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("migrations: read %s: %w", e.Name(), err)
		}
		result = append(result, Migration{
			Version: strings.TrimSuffix(e.Name(), ".up.sql"),
			SQL:     string(body),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})
	return result, nil
}

// Up применяет все еще не примененные миграции, каждую в своей транзакции
func Up(ctx context.Context, db *dbmetrics.DB, log Logger) (int, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return 0, fmt.Errorf("migrations: create schema_migrations: %w", err)
	}

	all, err := List()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, m := range all {
		done, err := isApplied(ctx, db, m.Version)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("migrations: begin %s: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("migrations: apply %s: %w", m.Version, err)
		}

		query, args, err := psqlbuilder.Insert("schema_migrations").Columns("version").Values(m.Version).ToSql()
		if err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("migrations: build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("migrations: record %s: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("migrations: commit %s: %w", m.Version, err)
		}

		log.Info("Migration %s applied", m.Version)
		applied++
	}

	return applied, nil
}

func isApplied(ctx context.Context, db dbmetrics.DBExecutor, version string) (bool, error) {
	query, args, err := psqlbuilder.Select("COUNT(1)").
		From("schema_migrations").
		Where("version = ?", version).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("migrations: build select: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("migrations: check %s: %w", version, err)
	}
	return count > 0, nil
}
