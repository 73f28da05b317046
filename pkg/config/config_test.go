package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STOREFRONT_APP_ENV", "dev")
	t.Setenv("STOREFRONT_APP_PORT", "8080")
	t.Setenv("STOREFRONT_SCHOOL_CODE", "westmoreland")
	t.Setenv("STOREFRONT_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STOREFRONT_COMMERCE_BASE_URL", "https://commerce.example.com")
	t.Setenv("STOREFRONT_COMMERCE_API_KEY", "secret")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.LogLevel != "info" {
		t.Fatalf("unexpected log level: %s", cfg.App.LogLevel)
	}
	if cfg.Commerce.Timeout != 15*time.Second {
		t.Fatalf("unexpected commerce timeout: %s", cfg.Commerce.Timeout)
	}
	if cfg.Checkout.SessionTTL != 72*time.Hour {
		t.Fatalf("unexpected session ttl: %s", cfg.Checkout.SessionTTL)
	}
	if !cfg.App.IsDev() || cfg.App.IsProd() {
		t.Fatal("env helpers disagree with STOREFRONT_APP_ENV=dev")
	}
}

func TestLoadFailsWithoutRequiredValues(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv("STOREFRONT_COMMERCE_API_KEY")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing commerce api key")
	}
}
