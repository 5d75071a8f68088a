package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
port: "8080"
databaseURL: "postgres://localhost/vuedubooks"
jwtSecret: "file-secret"
rateLimit: 30
rateWindow: "1m"
trustedProxies:
  - "10.0.0.0/8"
courseCodes:
  - "CS101"
categories:
  CS: "Computer Science"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.JWTSecret != "file-secret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RateLimit != 30 || cfg.RateWindow != "1m" {
		t.Fatalf("rate config: %+v", cfg)
	}
	if len(cfg.CourseCodes) != 1 || cfg.Categories["CS"] != "Computer Science" {
		t.Fatalf("catalog overrides: %+v", cfg)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
port: "8080"
databaseURL: "postgres://localhost/vuedubooks"
jwtSecret: "file-secret"
`)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("RATE_LIMIT", "99")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("PORT override ignored: %q", cfg.Port)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Fatalf("JWT_SECRET override ignored")
	}
	if cfg.RateLimit != 99 {
		t.Fatalf("RATE_LIMIT override ignored: %d", cfg.RateLimit)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	path := writeConfig(t, `
port: "8080"
jwtSecret: "s"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing databaseURL")
	}

	path = writeConfig(t, `
port: "8080"
databaseURL: "postgres://localhost/db"
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing jwtSecret")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("", time.Minute)
	if err != nil || d != time.Minute {
		t.Fatalf("empty input: %v, %v", d, err)
	}
	d, err = ParseDuration("90s", time.Minute)
	if err != nil || d != 90*time.Second {
		t.Fatalf("90s: %v, %v", d, err)
	}
	if _, err := ParseDuration("banana", time.Minute); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := ParseDuration("-1m", time.Minute); err == nil {
		t.Fatalf("expected error for negative duration")
	}
}
