package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// config_test.go covers the three file formats and default handling.

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "qbitctl.json", `{
  "host": "seedbox:8080",
  "username": "admin",
  "password": "secret",
  "rate_limit_count": 5,
  "rate_limit_duration": 2
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "seedbox:8080" || cfg.Password != "secret" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	opts := cfg.Options()
	if opts.RateLimitCount != 5 || opts.RateLimitDuration != 2*time.Second {
		t.Fatalf("unexpected rate limit %d/%v", opts.RateLimitCount, opts.RateLimitDuration)
	}
	if cfg.Path != filepath.Dir(path) {
		t.Fatalf("expected Path %s, got %s", filepath.Dir(path), cfg.Path)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yml", `host: localhost:8080
username: admin
password: adminadmin
user_agent: qbitctl
rate_limit: 20/minute
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.UserAgent != "qbitctl" {
		t.Fatalf("expected user agent, got %q", cfg.UserAgent)
	}
	if cfg.RateLimitCount != 20 || cfg.RateWindow() != time.Minute {
		t.Fatalf("expected 20/minute, got %d/%v", cfg.RateLimitCount, cfg.RateWindow())
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `host = "https://qbt.example.com"
username = "admin"
password = "pw"
insecure_skip_verify = true
upload_workers = 8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.InsecureSkipVerify || cfg.UploadWorkers != 8 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.RateLimitCount != 10 || cfg.RateLimitDuration != 10 {
		t.Fatalf("expected default rate limit, got %d/%d", cfg.RateLimitCount, cfg.RateLimitDuration)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_InvalidContent(t *testing.T) {
	path := writeConfig(t, "bad.json", `{"host": `)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Host: "h", Username: "u", RateLimitCount: -1, UploadWorkers: 0}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.RateLimitCount != 10 || cfg.RateLimitDuration != 10 || cfg.UploadWorkers != 4 {
		t.Fatalf("expected defaults restored, got %+v", cfg)
	}

	if err := (&Config{Host: "h"}).Validate(); err == nil {
		t.Fatalf("expected username error")
	}
	if err := (&Config{Username: "u"}).Validate(); err == nil {
		t.Fatalf("expected host error")
	}
	if err := (&Config{Host: "h", Username: "u", RateLimit: "fast"}).Validate(); err == nil {
		t.Fatalf("expected rate limit error")
	}
}

func TestFind_LocalFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)

	if got := Find(""); got != "" {
		t.Fatalf("expected no config, found %q", got)
	}
	if _, err := Load(""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := os.WriteFile("qbitctl.yaml", []byte("host: nas\nusername: admin\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if got := Find(""); got != "qbitctl.yaml" {
		t.Fatalf("expected qbitctl.yaml, got %q", got)
	}
}

func TestLoad_DoesNotValidate(t *testing.T) {
	path := writeConfig(t, "qbitctl.yaml", "host: localhost:8080\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected a file without username to load, got %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected username error from Validate")
	}

	cfg.Username = "admin"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate after override: %v", err)
	}
}
