package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "STORE_BACKEND", "DATA_DIR", "INVENTORY_LOW_STOCK_THRESHOLD", "INVENTORY_DEFAULT_UNITS", "EMAIL_PROVIDER", "SMTP_PORT", "ALERT_RECIPIENTS", "SESSION_TTL"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.StoreBackend != "file" || cfg.DataDir != "data" {
		t.Fatalf("expected file store under data/, got %s %s", cfg.StoreBackend, cfg.DataDir)
	}
	if cfg.LowStockThreshold != 5 {
		t.Fatalf("expected default threshold 5, got %d", cfg.LowStockThreshold)
	}
	if cfg.DefaultUnits != 10 {
		t.Fatalf("expected default units 10, got %d", cfg.DefaultUnits)
	}
	if cfg.EmailProvider != "smtp" || cfg.SMTPHost != "localhost" || cfg.SMTPPort != 1025 {
		t.Fatalf("expected local smtp relay, got %s %s:%d", cfg.EmailProvider, cfg.SMTPHost, cfg.SMTPPort)
	}
	if len(cfg.AlertRecipients) != 1 || cfg.AlertRecipients[0] != "admin@hospital.com" {
		t.Fatalf("unexpected alert recipients %v", cfg.AlertRecipients)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("STORE_BACKEND", " Redis ")
	t.Setenv("INVENTORY_LOW_STOCK_THRESHOLD", "8")
	t.Setenv("ALERT_RECIPIENTS", "a@hospital.com, ,b@hospital.com")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("REDIS_TLS", "true")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.StoreBackend != "redis" {
		t.Fatalf("expected normalised backend, got %q", cfg.StoreBackend)
	}
	if cfg.LowStockThreshold != 8 {
		t.Fatalf("expected threshold override, got %d", cfg.LowStockThreshold)
	}
	if len(cfg.AlertRecipients) != 2 || cfg.AlertRecipients[1] != "b@hospital.com" {
		t.Fatalf("expected two alert recipients, got %v", cfg.AlertRecipients)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected ttl override, got %s", cfg.SessionTTL)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("INVENTORY_LOW_STOCK_THRESHOLD", "many")
	t.Setenv("SESSION_TTL", "soon")
	cfg := Load()
	if cfg.LowStockThreshold != 5 {
		t.Fatalf("expected fallback threshold, got %d", cfg.LowStockThreshold)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Fatalf("expected fallback ttl, got %s", cfg.SessionTTL)
	}
}
