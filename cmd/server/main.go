package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"crosscheck/internal/adapters/deepl"
	"crosscheck/internal/adapters/filestore"
	httpadapter "crosscheck/internal/adapters/http"
	pg "crosscheck/internal/adapters/postgres"
	"crosscheck/internal/config"
	"crosscheck/internal/policy"
	"crosscheck/internal/ports"
	assesssvc "crosscheck/internal/services/assessment"
	checksvc "crosscheck/internal/services/checks"
	lookupsvc "crosscheck/internal/services/lookup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pol, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatalf("policy error: %v", err)
	}
	holder := policy.NewHolder(pol)
	if cfg.PolicyFile != "" {
		if err := config.WatchPolicy(ctx, cfg.PolicyFile, holder); err != nil {
			log.Printf("warning: policy hot reload disabled: %v", err)
		}
	}

	var store ports.ReferenceStore
	if cfg.DatabaseURL != "" {
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connect error: %v", err)
		}
		defer db.Close()
		if cfg.MigrateOnStart {
			n, err := db.Migrate(ctx)
			if err != nil {
				log.Fatalf("migrate error: %v", err)
			}
			log.Printf("migrations applied: %d", n)
		}
		store = db
	} else {
		store = filestore.New(cfg.DataDir)
		log.Printf("DATABASE_URL not set, reading reference data from %s", cfg.DataDir)
	}

	var translator ports.Translator
	if cfg.DeepLAPIKey != "" {
		translator = deepl.New(cfg.DeepLAPIKey, cfg.DeepLAPIURL)
	} else {
		log.Printf("warning: DEEPL_API_KEY not set, translation checks will report UNKNOWN")
	}

	checks := checksvc.New(store, translator, holder)
	lookup := lookupsvc.New(store)
	assessor := assesssvc.New(checks, lookup, cfg.CheckWorkers)

	srv := httpadapter.New(assessor, checks, lookup, holder)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()
	log.Printf("listening on %s (%s, %d check workers)", cfg.ListenAddr, cfg.Env, cfg.CheckWorkers)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("shutting down on %s", sig)
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(fmt.Errorf("server error: %w", err))
		}
	}
}
