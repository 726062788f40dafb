// Package config loads server settings from the environment and an optional
// dotenv file. Command-line flags registered with RegisterFlags take
// precedence over both.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	DBPath     string        `env:"REWEAR_DB" envDefault:"rewear.sqlite3"`
	Addr       string        `env:"REWEAR_ADDR" envDefault:":8080"`
	AdminEmail string        `env:"REWEAR_ADMIN_EMAIL" envDefault:"admin@rewear.local"`
	LogPath    string        `env:"REWEAR_LOG"`
	TokenTTL   time.Duration `env:"REWEAR_TOKEN_TTL" envDefault:"168h"`

	// NATSURL enables swap event publication when set.
	NATSURL           string `env:"REWEAR_NATS_URL"`
	NATSSubjectPrefix string `env:"REWEAR_NATS_SUBJECT_PREFIX" envDefault:"rewear.swaps"`
}

// Load reads the configuration from environment variables. Variables in the
// optional dotenv file apply only where the environment does not set them.
func Load(dotenvPath string) (*Config, error) {
	environ, err := environment(dotenvPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("REWEAR_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}

func environment(dotenvPath string) (map[string]string, error) {
	environ := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	if dotenvPath == "" {
		return environ, nil
	}

	file, err := godotenv.Read(dotenvPath)
	if errors.Is(err, fs.ErrNotExist) {
		return environ, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dotenvPath, err)
	}
	for k, v := range file {
		if _, ok := environ[k]; !ok {
			environ[k] = v
		}
	}
	return environ, nil
}

// RegisterFlags binds the short and long flag forms to cfg. Current values
// are used as defaults.
func (cfg *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	flags.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	flags.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	flags.StringVar(&cfg.AdminEmail, "user", cfg.AdminEmail, "")
	flags.StringVar(&cfg.AdminEmail, "u", cfg.AdminEmail, "")

	flags.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	flags.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	flags.StringVar(&cfg.NATSURL, "nats", cfg.NATSURL, "")
	flags.StringVar(&cfg.NATSURL, "n", cfg.NATSURL, "")
}
