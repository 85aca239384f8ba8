package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/depscout/depscout/pkg/errors"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ".depscout.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Registry.BaseURL != "https://registry.npmjs.org" {
		t.Errorf("BaseURL = %q", cfg.Registry.BaseURL)
	}
	if cfg.Registry.Concurrency != 10 || cfg.Registry.RatePerMinute != 1000 {
		t.Errorf("registry defaults = %+v", cfg.Registry)
	}
	if cfg.Registry.CacheTTL.Std() != 24*time.Hour {
		t.Errorf("CacheTTL = %v", cfg.Registry.CacheTTL.Std())
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Format = %q", cfg.Output.Format)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".depscout.toml")
	content := `[registry]
base_url = "http://localhost:4873"
concurrency = 4
retry_delay = "250ms"

[output]
format = "csv"
path = "out.csv"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Registry.BaseURL != "http://localhost:4873" || cfg.Registry.Concurrency != 4 {
		t.Errorf("registry = %+v", cfg.Registry)
	}
	if cfg.Registry.RetryDelay.Std() != 250*time.Millisecond {
		t.Errorf("RetryDelay = %v", cfg.Registry.RetryDelay.Std())
	}
	// Unset keys keep their defaults.
	if cfg.Registry.RatePerMinute != 1000 {
		t.Errorf("RatePerMinute = %d, want default 1000", cfg.Registry.RatePerMinute)
	}
	if cfg.Output.Format != "csv" || cfg.Output.Path != "out.csv" {
		t.Errorf("output = %+v", cfg.Output)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".depscout.toml")
	if err := os.WriteFile(path, []byte(`[registry`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error code = %s", errors.GetCode(err))
	}
}

func TestLoad_BadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".depscout.toml")
	if err := os.WriteFile(path, []byte("[registry]\nretry_delay = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unparseable duration")
	}
}
