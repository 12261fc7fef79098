package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/suchimauz/clinic-slots-engine/internal/core/ports/out"
)

// Migrator - обёртка над goose
type Migrator struct {
	db             *sql.DB
	migrationsPath string
	logger         out.LoggerPort
}

func NewMigrator(pool *pgxpool.Pool, migrationsPath string, logger out.LoggerPort) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	// Goose работает с *sql.DB, создаём его из конфига пула
	db := stdlib.OpenDBFromPool(pool)

	return &Migrator{
		db:             db,
		migrationsPath: migrationsPath,
		logger:         logger.WithModule("Migrator"),
	}, nil
}

// Run применяет все pending миграции
func (m *Migrator) Run(ctx context.Context) error {
	m.logger.Info("migrations.apply.started", out.LogFields{
		"path": m.migrationsPath,
	})

	if err := goose.UpContext(ctx, m.db, m.migrationsPath); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}

	m.logger.Info("migrations.apply.finished", out.LogFields{
		"version": version,
	})

	return nil
}

// Close закрывает соединение мигратора, пул остаётся жить
func (m *Migrator) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
