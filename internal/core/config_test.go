package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoad_Defaults_WhenNoFile(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, "http://localhost:8000")
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.API.Timeout)
	}
	if cfg.API.Retries != 2 {
		t.Errorf("Retries = %d, want 2", cfg.API.Retries)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
	if cfg.Display.Output != "table" {
		t.Errorf("Display.Output = %q, want %q", cfg.Display.Output, "table")
	}
	if cm.ConfigFileUsed() != "" {
		t.Errorf("ConfigFileUsed = %q, want empty", cm.ConfigFileUsed())
	}
	if err := cm.ValidateConfig(cfg); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".taskboard.yaml", `
api:
  base_url: https://tasks.example.com/
  timeout: 30s
  retries: 5
  login_path: /auth/login
  headers:
    ngrok-skip-browser-warning: "true"
log:
  level: DEBUG
  format: json
display:
  output: yaml
`)
	cm := NewConfigurationManager(dir)

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "https://tasks.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.API.Retries != 5 {
		t.Errorf("Retries = %d, want 5", cfg.API.Retries)
	}
	if cfg.API.LoginPath != "/auth/login" {
		t.Errorf("LoginPath = %q, want %q", cfg.API.LoginPath, "/auth/login")
	}
	if cfg.API.Headers["ngrok-skip-browser-warning"] != "true" {
		t.Errorf("Headers = %v, want ngrok header", cfg.API.Headers)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want lowercased %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.Display.Output != "yaml" {
		t.Errorf("Display.Output = %q, want %q", cfg.Display.Output, "yaml")
	}
	if !strings.HasSuffix(cm.ConfigFileUsed(), ".taskboard.yaml") {
		t.Errorf("ConfigFileUsed = %q, want the yaml file", cm.ConfigFileUsed())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".taskboard.yaml", "api:\n  base_url: http://file.example.com\n")
	t.Setenv("TB_API_BASE_URL", "http://env.example.com")
	t.Setenv("TB_LOG_LEVEL", "info")

	cfg, err := NewConfigurationManager(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.BaseURL != "http://env.example.com" {
		t.Errorf("BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".taskboard.yaml", "api: [unclosed\n")

	if _, err := NewConfigurationManager(dir).Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestValidateConfig_Errors(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())

	cfg := DefaultConfig()
	cfg.API.BaseURL = "ftp://example.com"
	cfg.API.Timeout = 0
	cfg.API.Retries = -1
	cfg.API.LoginPath = "login"
	cfg.Log.Level = "verbose"
	cfg.Log.Format = "xml"
	cfg.Display.Output = "csv"

	err := cm.ValidateConfig(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"config validation failed:",
		"api.base_url",
		"api.timeout",
		"api.retries",
		"api.login_path",
		"log.level",
		"log.format",
		"display.output",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestValidateConfig_EmptyBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = ""

	err := NewConfigurationManager(t.TempDir()).ValidateConfig(cfg)
	if err == nil || !strings.Contains(err.Error(), "api.base_url must not be empty") {
		t.Errorf("error = %v, want empty base_url message", err)
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	if err := NewConfigurationManager(t.TempDir()).ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}
