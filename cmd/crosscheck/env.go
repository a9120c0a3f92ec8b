package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"crosscheck/internal/adapters/deepl"
	"crosscheck/internal/adapters/filestore"
	pg "crosscheck/internal/adapters/postgres"
	"crosscheck/internal/config"
	"crosscheck/internal/policy"
	"crosscheck/internal/ports"
	assesssvc "crosscheck/internal/services/assessment"
	checksvc "crosscheck/internal/services/checks"
	lookupsvc "crosscheck/internal/services/lookup"
)

// storeFlags selects the reference store and policy for a command. Defaults
// come from the environment.
type storeFlags struct {
	dataDir     string
	databaseURL string
	policyFile  string
	workers     int
	deeplKey    string
	deeplURL    string
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (f *storeFlags) register(fs *flag.FlagSet) {
	cfg, err := config.Load()
	if err != nil {
		cfg.DataDir, cfg.CheckWorkers = "data", 8
	}
	fs.StringVar(&f.dataDir, "data", cfg.DataDir, "reference data directory")
	fs.StringVar(&f.databaseURL, "database-url", cfg.DatabaseURL, "postgres reference store; overrides --data")
	fs.StringVar(&f.policyFile, "policy", cfg.PolicyFile, "YAML policy overlay")
	fs.IntVar(&f.workers, "workers", cfg.CheckWorkers, "concurrent checks")
	f.deeplKey, f.deeplURL = cfg.DeepLAPIKey, cfg.DeepLAPIURL
}

type services struct {
	checks   *checksvc.Service
	lookup   *lookupsvc.Service
	assessor *assesssvc.Service
	close    func()
}

func (f *storeFlags) open(ctx context.Context) (services, error) {
	pol, err := config.LoadPolicy(f.policyFile)
	if err != nil {
		return services{}, err
	}
	var store ports.ReferenceStore = filestore.New(f.dataDir)
	closer := func() {}
	if f.databaseURL != "" {
		db, err := pg.Connect(ctx, f.databaseURL)
		if err != nil {
			return services{}, fmt.Errorf("connect: %w", err)
		}
		store, closer = db, db.Close
	}
	var translator ports.Translator
	if f.deeplKey != "" {
		translator = deepl.New(f.deeplKey, f.deeplURL)
	}
	return build(store, translator, policy.Static(pol), f.workers, closer), nil
}

func build(store ports.ReferenceStore, translator ports.Translator, pol policy.Source, workers int, closer func()) services {
	checks := checksvc.New(store, translator, pol)
	lookup := lookupsvc.New(store)
	return services{
		checks:   checks,
		lookup:   lookup,
		assessor: assesssvc.New(checks, lookup, workers),
		close:    closer,
	}
}
