package main

import (
	"context"
	"fmt"

	pg "crosscheck/internal/adapters/postgres"
	"crosscheck/internal/config"
)

func runMigrate(arguments []string) int {
	fs := newFlagSet("migrate")
	cfg, _ := config.Load()
	var databaseURL string
	var jsonOutput bool
	fs.StringVar(&databaseURL, "database-url", cfg.DatabaseURL, "postgres connection string")
	fs.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	if err := fs.Parse(arguments); err != nil {
		return fail(jsonOutput, "migrate", usageError("%v", err))
	}
	if databaseURL == "" {
		return fail(jsonOutput, "migrate", usageError("--database-url or DATABASE_URL is required"))
	}

	ctx := context.Background()
	db, err := pg.Connect(ctx, databaseURL)
	if err != nil {
		return fail(jsonOutput, "migrate", err)
	}
	defer db.Close()
	n, err := db.Migrate(ctx)
	if err != nil {
		return fail(jsonOutput, "migrate", err)
	}
	if jsonOutput {
		return writeJSON(map[string]any{"ok": true, "applied": n}, exitOK)
	}
	fmt.Printf("migrations applied: %d\n", n)
	return exitOK
}
