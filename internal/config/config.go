package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"crosscheck/internal/policy"
)

type Config struct {
	Env            string
	ListenAddr     string
	DatabaseURL    string
	DataDir        string
	DeepLAPIKey    string
	DeepLAPIURL    string
	PolicyFile     string
	CheckWorkers   int
	MigrateOnStart bool
}

// DotenvFile is read before the environment when present. Variables already
// set in the environment win.
const DotenvFile = ".env"

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func Load() (Config, error) {
	if err := godotenv.Load(DotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", DotenvFile, err)
	}
	cfg := Config{
		Env:            getenv("APP_ENV", "development"),
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DataDir:        getenv("DATA_DIR", "data"),
		DeepLAPIKey:    os.Getenv("DEEPL_API_KEY"),
		DeepLAPIURL:    os.Getenv("DEEPL_API_URL"),
		PolicyFile:     os.Getenv("POLICY_FILE"),
		CheckWorkers:   getenvInt("CHECK_WORKERS", 8),
		MigrateOnStart: getenvBool("MIGRATE_ON_START", false),
	}
	if cfg.CheckWorkers < 1 {
		return cfg, fmt.Errorf("CHECK_WORKERS must be positive, got %d", cfg.CheckWorkers)
	}
	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		_, err := fmt.Sscanf(v, "%d", &out)
		if err == nil {
			return out
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// LoadPolicy reads a YAML policy overlay. An empty path yields the defaults.
func LoadPolicy(path string) (policy.Policy, error) {
	if path == "" {
		return policy.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("read policy %s: %w", path, err)
	}
	p, err := policy.Parse(data)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
