package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"crosscheck/internal/policy"
)

// unsetenv removes keys for the duration of the test. godotenv treats a key
// set to "" as already present.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetenv(t, "APP_ENV", "LISTEN_ADDR", "DATABASE_URL", "DATA_DIR", "CHECK_WORKERS", "MIGRATE_ON_START")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.DataDir != "data" || cfg.CheckWorkers != 8 || cfg.MigrateOnStart {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadReadsDotenvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	env := "DATA_DIR=/srv/data\nCHECK_WORKERS=3\nMIGRATE_ON_START=true\nLISTEN_ADDR=:9999\n"
	if err := os.WriteFile(filepath.Join(dir, DotenvFile), []byte(env), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("LISTEN_ADDR", ":7000")
	unsetenv(t, "DATA_DIR", "CHECK_WORKERS", "MIGRATE_ON_START")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ListenAddr != ":7000" {
		t.Fatalf("environment must win over .env, got %s", cfg.ListenAddr)
	}
	if cfg.DataDir != "/srv/data" || cfg.CheckWorkers != 3 || !cfg.MigrateOnStart {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsNonPositiveWorkers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHECK_WORKERS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero workers")
	}
}

func TestLoadPolicy(t *testing.T) {
	p, err := LoadPolicy("")
	if err != nil || p.DelayCap != policy.Default().DelayCap {
		t.Fatalf("unexpected default policy: %+v %v", p, err)
	}
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("quantity_tolerance_percent: 2.5\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	p, err = LoadPolicy(path)
	if err != nil || p.QuantityTolerancePercent != 2.5 || p.SimilarityThreshold != 0.70 {
		t.Fatalf("unexpected policy: %+v %v", p, err)
	}
	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWatchPolicyReloads(t *testing.T) {
	PolicyDebounce = 10 * time.Millisecond
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("delay_cap: 90\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	initial, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	holder := policy.NewHolder(initial)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := WatchPolicy(ctx, path, holder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(path, []byte("delay_cap: 80\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	waitFor(t, func() bool { return holder.Current().DelayCap == 80 })

	if err := os.WriteFile(path, []byte("delay_cap: 500\n"), 0o600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	if got := holder.Current().DelayCap; got != 80 {
		t.Fatalf("an invalid policy must not replace the current one, got %d", got)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
