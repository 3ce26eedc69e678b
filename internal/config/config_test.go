package config

import (
	"log/slog"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DB_PATH", "LOG_LEVEL", "SPA_DIR", "ROSTER_FILE", "OPERATOR_PIN_HASH", "REPORT_TITLE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.DBPath != "data/bakken.db" {
		t.Errorf("DBPath = %q, want data/bakken.db", cfg.DBPath)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.OperatorPINHash != "" || cfg.RosterFile != "" {
		t.Errorf("expected optional settings to be empty, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("DB_PATH", "/var/lib/bakken/archive.db")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ROSTER_FILE", "roster.yaml")
	t.Setenv("REPORT_TITLE", "BAKKEN 2025")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" || cfg.DBPath != "/var/lib/bakken/archive.db" {
		t.Errorf("unexpected addresses %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
	if cfg.RosterFile != "roster.yaml" || cfg.ReportTitle != "BAKKEN 2025" {
		t.Errorf("unexpected optional settings %+v", cfg)
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "LOUD")
	if _, err := Load(); err == nil {
		t.Fatal("expected an invalid log level to fail")
	}
}
