package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("expected store %q, got %q", StoreMemory, cfg.Store)
	}
	if !cfg.Seed {
		t.Error("expected seeding to be on by default")
	}
	if cfg.SimulateLatency {
		t.Error("expected latency simulation to be off by default")
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected 5s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TASKFLOW_STORE", "sqlite")
	t.Setenv("DB_PATH", "/tmp/tasks.db")
	t.Setenv("TASKFLOW_SEED", "false")
	t.Setenv("TASKFLOW_SIMULATE_LATENCY", "true")
	t.Setenv("TASKFLOW_SHUTDOWN_TIMEOUT", "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" || cfg.Store != StoreSQLite || cfg.DBPath != "/tmp/tasks.db" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Seed || !cfg.SimulateLatency {
		t.Errorf("unexpected flags: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown store", "TASKFLOW_STORE", "postgres"},
		{"bad bool", "TASKFLOW_SEED", "perhaps"},
		{"bad duration", "TASKFLOW_SHUTDOWN_TIMEOUT", "soon"},
		{"zero duration", "TASKFLOW_SHUTDOWN_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
