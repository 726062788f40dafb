package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "rewear.sqlite3" {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr: got %q", cfg.Addr)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL: got %s", cfg.TokenTTL)
	}
	if cfg.NATSURL != "" {
		t.Errorf("NATSURL: expected empty, got %q", cfg.NATSURL)
	}
	if cfg.NATSSubjectPrefix != "rewear.swaps" {
		t.Errorf("NATSSubjectPrefix: got %q", cfg.NATSSubjectPrefix)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REWEAR_DB", "/tmp/test.db")
	t.Setenv("REWEAR_NATS_URL", "nats://localhost:4222")
	t.Setenv("REWEAR_TOKEN_TTL", "2h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Errorf("NATSURL: got %q", cfg.NATSURL)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL: got %s", cfg.TokenTTL)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, value, want string
	}{
		{"unparsable", "soon", "parse env:"},
		{"negative", "-1h", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("REWEAR_TOKEN_TTL", tt.value)
			_, err := Load("")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("REWEAR_ADDR", ":9000")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-d", "flag.db", "-nats", "nats://broker:4222"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Addr != ":9000" {
		t.Errorf("Addr: expected env value, got %q", cfg.Addr)
	}
	if cfg.DBPath != "flag.db" {
		t.Errorf("DBPath: expected flag value, got %q", cfg.DBPath)
	}
	if cfg.NATSURL != "nats://broker:4222" {
		t.Errorf("NATSURL: got %q", cfg.NATSURL)
	}
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	data := "REWEAR_DB=dotenv.db\nREWEAR_ADDR=:7000\n# comment\nREWEAR_NATS_URL=nats://dotenv:4222\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("writing dotenv: %v", err)
	}
	t.Setenv("REWEAR_ADDR", ":9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "dotenv.db" {
		t.Errorf("DBPath: expected dotenv value, got %q", cfg.DBPath)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr: expected environment to win, got %q", cfg.Addr)
	}
	if cfg.NATSURL != "nats://dotenv:4222" {
		t.Errorf("NATSURL: got %q", cfg.NATSURL)
	}
}

func TestLoadMissingDotenv(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "rewear.sqlite3" {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
}
