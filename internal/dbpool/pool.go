// Package dbpool provides PostgreSQL connection pool management.
package dbpool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSchemaMissing means the database is reachable but not migrated.
var ErrSchemaMissing = errors.New("biog_main table missing; run kinnet migrate")

// DefaultMaxConns is used when NewPool is given a non-positive limit.
const DefaultMaxConns = 10

// Pool wraps a read-only pgxpool.Pool with health check capabilities.
// The underlying pool is unexported so store methods go through their own
// query timeouts.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool creates a PostgreSQL connection pool and verifies connectivity.
func NewPool(ctx context.Context, databaseURL string, maxConns int) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}

	params := cfg.ConnConfig.RuntimeParams
	params["statement_timeout"] = "30000"
	params["application_name"] = "kinnet"
	// The network service never writes; migrations open their own connection.
	params["default_transaction_read_only"] = "on"

	cfg.MaxConns = int32(maxConns) //nolint:gosec // bounded by config validation.
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Query executes a query that returns rows.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.pool.Query(ctx, sql, args...)
}

// HealthCheck verifies the CBDB person table is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var ok bool

	err := p.pool.QueryRow(ctx, "SELECT to_regclass('biog_main') IS NOT NULL").Scan(&ok)
	if err != nil {
		return fmt.Errorf("health check query: %w", err)
	}

	if !ok {
		return fmt.Errorf("health check: %w", ErrSchemaMissing)
	}

	return nil
}

// ConnString returns the connection string used to create the pool.
func (p *Pool) ConnString() string {
	return p.pool.Config().ConnString()
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.pool.Close()
}
