package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080 got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected development env got %s", cfg.Env)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	cfg := Load()
	if cfg.Port != "9000" || cfg.LogLevel != "debug" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestParseBool(t *testing.T) {
	t.Setenv("FLAG", "true")
	if !ParseBool("FLAG", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("FLAG", "nope")
	if ParseBool("FLAG", false) {
		t.Fatalf("invalid value must fall back to default")
	}
	t.Setenv("FLAG", "")
	if !ParseBool("FLAG", true) {
		t.Fatalf("unset must return default")
	}
}
