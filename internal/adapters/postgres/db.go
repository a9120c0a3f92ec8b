package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	cerr "crosscheck/internal/errors"
)

// DB is the Postgres reference store. Every method re-queries; nothing is cached.
type DB struct {
	Pool *pgxpool.Pool
}

// Connect opens a pool and pings it. Failures carry the dependency_unavailable
// kind so callers can tell a bad URL from a missing record.
func Connect(ctx context.Context, url string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, cerr.Wrap(err, cerr.KindInvalidInput, "bad_database_url", "Check DATABASE_URL")
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.RuntimeParams["application_name"] = "crosscheck"
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, unavailable("pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, unavailable("ping", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() { db.Pool.Close() }

// unavailable classifies a failed query; the reference table could not be read.
func unavailable(table string, err error) error {
	return cerr.Wrap(fmt.Errorf("query %s: %w", table, err), cerr.KindDependencyUnavailable,
		"store_unavailable", "Check the reference database connection")
}
