package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("DB_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.UseMemoryRepositories() {
		t.Fatalf("expected memory repositories when DB_URL is empty")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.SessionSubmitTimeout != 2*time.Second {
		t.Fatalf("unexpected SessionSubmitTimeout: %s", cfg.SessionSubmitTimeout)
	}
	if cfg.SessionInboxSize != 64 {
		t.Fatalf("unexpected SessionInboxSize: %d", cfg.SessionInboxSize)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_CricFeedRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CRICFEED_ENABLED", "true")
	t.Setenv("CRICFEED_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when CRICFEED_ENABLED=true without CRICFEED_TOKEN")
	}
}

func TestLoad_CricFeedConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("CRICFEED_ENABLED", "true")
	t.Setenv("CRICFEED_TOKEN", "feed-token")
	t.Setenv("CRICFEED_TIMEOUT", "8s")
	t.Setenv("CRICFEED_WORKERS", "6")
	t.Setenv("CRICFEED_MAX_RETRIES", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.CricFeedEnabled {
		t.Fatalf("expected CricFeedEnabled=true")
	}
	if cfg.CricFeedTimeout != 8*time.Second {
		t.Fatalf("unexpected CricFeedTimeout: %s", cfg.CricFeedTimeout)
	}
	if cfg.CricFeedWorkers != 6 {
		t.Fatalf("unexpected CricFeedWorkers: %d", cfg.CricFeedWorkers)
	}
	if cfg.CricFeedMaxRetries != 2 {
		t.Fatalf("unexpected CricFeedMaxRetries: %d", cfg.CricFeedMaxRetries)
	}
}

func TestLoad_QStashRequiresDeliveryTargets(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "qstash-token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when QSTASH_ENABLED=true without QSTASH_TARGET_BASE_URL")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}
