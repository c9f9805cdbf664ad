// Package main loads a CBDB SQLite snapshot into PostgreSQL so kinnet can
// serve it with the postgres driver.
//
// Usage:
//
//	SQLITE_PATH=/path/to/cbdb.sqlite DATABASE_URL=postgres://... go run ./scripts/migrate
//
// The target schema must already exist (kinnet migrate). Rows already present
// in PostgreSQL are kept; set REPLACE=true to truncate the tables first.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	_ "modernc.org/sqlite"
)

// config holds environment-driven migration settings.
type config struct {
	SQLitePath  string
	DatabaseURL string
	DryRun      bool
	Replace     bool
}

// tableReport is the per-table outcome.
type tableReport struct {
	Name     string
	Read     int
	Inserted int
	Skipped  int
	Verified int
}

// report holds the final migration summary.
type report struct {
	Source     string
	Target     string
	Tables     []tableReport
	SpotChecks []string
	Duration   time.Duration
	DryRun     bool
	Err        error
}

func main() {
	cfg := loadConfig()
	if cfg.DatabaseURL == "" && !cfg.DryRun {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	slog.Info("starting migration",
		"sqlite", cfg.SQLitePath,
		"dry_run", cfg.DryRun,
		"replace", cfg.Replace,
	)

	start := time.Now()
	r, err := runMigration(context.Background(), cfg)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		slog.Error("migration failed", "error", err)
	}
	printReport(os.Stdout, &r)
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration from environment variables.
func loadConfig() config {
	return config{
		SQLitePath:  envOr("SQLITE_PATH", "cbdb.sqlite"),
		DatabaseURL: envOr("DATABASE_URL", ""),
		DryRun:      envBool("DRY_RUN"),
		Replace:     envBool("REPLACE"),
	}
}

// runMigration copies every CBDB table in one transaction.
func runMigration(ctx context.Context, cfg config) (report, error) {
	r := report{
		Source: cfg.SQLitePath,
		Target: sanitizeURL(cfg.DatabaseURL),
		DryRun: cfg.DryRun,
	}

	lite, err := sql.Open("sqlite", cfg.SQLitePath+"?mode=ro")
	if err != nil {
		return r, fmt.Errorf("open sqlite: %w", err)
	}
	defer lite.Close()

	if cfg.DryRun {
		slog.Info("dry run, skipping PostgreSQL writes")
		for _, t := range tables {
			n, err := t.countSource(ctx, lite)
			if err != nil {
				return r, fmt.Errorf("count %s: %w", t.Name, err)
			}
			r.Tables = append(r.Tables, tableReport{Name: t.Name, Read: n, Inserted: n})
		}
		return r, nil
	}

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return r, fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return r, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit.

	if cfg.Replace {
		if err := truncateAll(ctx, tx); err != nil {
			return r, err
		}
	}

	for _, t := range tables {
		tr, err := copyTable(ctx, tx, lite, t)
		if err != nil {
			return r, fmt.Errorf("copy %s: %w", t.Name, err)
		}
		tr.Verified, err = countRows(ctx, tx, t.Name)
		if err != nil {
			return r, fmt.Errorf("verify %s: %w", t.Name, err)
		}
		r.Tables = append(r.Tables, tr)
		slog.Info("table copied", "table", t.Name, "read", tr.Read, "inserted", tr.Inserted, "skipped", tr.Skipped)
	}

	r.SpotChecks, err = spotCheck(ctx, tx, lite)
	if err != nil {
		return r, fmt.Errorf("spot check: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return r, fmt.Errorf("commit: %w", err)
	}
	slog.Info("transaction committed")
	return r, nil
}

// copyTable streams one table into a temporary staging table with COPY,
// then moves the rows across, dropping any that collide with existing keys.
func copyTable(ctx context.Context, tx pgx.Tx, lite *sql.DB, t tableSpec) (tableReport, error) {
	tr := tableReport{Name: t.Name}
	stage := pgx.Identifier{"stage_" + t.Name}
	target := pgx.Identifier{t.Name}

	if _, err := tx.Exec(ctx, fmt.Sprintf(
		"CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		stage.Sanitize(), target.Sanitize())); err != nil {
		return tr, fmt.Errorf("create staging table: %w", err)
	}

	rows, err := lite.QueryContext(ctx, t.selectSQL())
	if err != nil {
		return tr, fmt.Errorf("read sqlite: %w", err)
	}
	defer rows.Close()

	src := newRowSource(rows, t.Columns)
	n, err := tx.CopyFrom(ctx, stage, t.columnNames(), src)
	if err != nil {
		return tr, fmt.Errorf("copy to staging: %w", err)
	}
	tr.Read = int(n)

	tag, err := tx.Exec(ctx, fmt.Sprintf(
		"INSERT INTO %s SELECT * FROM %s ON CONFLICT DO NOTHING",
		target.Sanitize(), stage.Sanitize()))
	if err != nil {
		return tr, fmt.Errorf("insert from staging: %w", err)
	}
	tr.Inserted = int(tag.RowsAffected())
	tr.Skipped = tr.Read - tr.Inserted
	return tr, nil
}

// truncateAll empties every target table.
func truncateAll(ctx context.Context, tx pgx.Tx) error {
	for _, t := range tables {
		if _, err := tx.Exec(ctx, "TRUNCATE "+pgx.Identifier{t.Name}.Sanitize()); err != nil {
			return fmt.Errorf("truncate %s: %w", t.Name, err)
		}
	}
	slog.Info("target tables truncated")
	return nil
}
