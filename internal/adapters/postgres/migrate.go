package postgres

import (
	"context"
	"embed"
	"io/fs"
	"log"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies pending schema migrations and returns how many ran.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	sqlDB := stdlib.OpenDBFromPool(db.Pool)
	defer sqlDB.Close()

	dir, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return 0, err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, dir)
	if err != nil {
		return 0, err
	}
	defer provider.Close()

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range results {
		log.Printf("migrate: applied %s (%s)", r.Source.Path, r.Duration)
	}
	return len(results), nil
}
