package config

import (
	"testing"
)

func TestDBConfigValidateRequiresDSN(t *testing.T) {
	cfg := DBConfig{Driver: "postgres"}
	if err := cfg.validate(); err == nil {
		t.Fatalf("expected error when DSN missing")
	}
}

func TestDBConfigValidateRejectsUnknownDriver(t *testing.T) {
	cfg := DBConfig{DSN: "file::memory:", Driver: "oracle"}
	if err := cfg.validate(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestDBConfigValidateAcceptsSupportedDrivers(t *testing.T) {
	for _, driver := range []string{"postgres", "sqlite"} {
		cfg := DBConfig{DSN: "dsn", Driver: driver}
		if err := cfg.validate(); err != nil {
			t.Fatalf("driver %s: unexpected error %v", driver, err)
		}
	}
}

func TestAppConfigEnvChecks(t *testing.T) {
	if !(AppConfig{Env: "DEV"}).IsDev() {
		t.Fatalf("expected DEV to count as dev")
	}
	if !(AppConfig{Env: "prod"}).IsProd() {
		t.Fatalf("expected prod to count as prod")
	}
	if (AppConfig{Env: "staging"}).IsProd() {
		t.Fatalf("staging should not be prod")
	}
}
