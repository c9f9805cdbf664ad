// Package db applies the person-store schema to PostgreSQL.
//
// Migration files live in internal/db/migrations/ and are embedded via //go:embed.
// They are goose-annotated (-- +goose Up / -- +goose Down) and applied with a
// goose provider over a database/sql handle opened through the pgx stdlib driver.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/db/migrations"
	"github.com/persistorai/kinnet/internal/dbpool"
)

// Migrations returns the embedded migration filesystem.
func Migrations() fs.FS {
	return migrations.FS
}

// RunMigrations applies all pending migrations from fsys to the pool's database.
func RunMigrations(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger, fsys fs.FS) error {
	sqlDB, err := sql.Open("pgx", pool.ConnString())
	if err != nil {
		return fmt.Errorf("opening sql.DB for migrations: %w", err)
	}
	defer sqlDB.Close()

	return apply(ctx, goose.DialectPostgres, sqlDB, log, fsys)
}

// MigrateSQLite applies the embedded migrations to a SQLite database opened
// with the modernc driver. A CBDB distribution file already carries the
// tables; the statements are idempotent there.
func MigrateSQLite(ctx context.Context, sqlDB *sql.DB, log *logrus.Logger) error {
	return apply(ctx, goose.DialectSQLite3, sqlDB, log, migrations.FS)
}

func apply(ctx context.Context, dialect goose.Dialect, sqlDB *sql.DB, log *logrus.Logger, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		if r.Error != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", r.Source.Version, r.Source.Path, r.Error)
		}

		log.WithFields(logrus.Fields{
			"dialect":  dialect,
			"version":  r.Source.Version,
			"file":     r.Source.Path,
			"duration": r.Duration,
		}).Info("migration applied")
	}

	if len(results) == 0 {
		log.Debug("all migrations already applied")
	}

	return nil
}
