package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadTUIConfig_Defaults(t *testing.T) {
	clearConsultasEnv(t)

	cfg, err := loadTUIConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("loadTUIConfig returned error: %v", err)
	}
	if cfg.WebhookURL != "" {
		t.Fatalf("WebhookURL = %q, want empty", cfg.WebhookURL)
	}
	if cfg.WebhookTimeout != 30*time.Second {
		t.Fatalf("WebhookTimeout = %s, want 30s", cfg.WebhookTimeout)
	}
	if !strings.HasSuffix(cfg.LogFile, filepath.Join("consultas", "consultas.log")) {
		t.Fatalf("LogFile = %q, want the state-dir default", cfg.LogFile)
	}
}

func TestLoadTUIConfig_FromFile(t *testing.T) {
	clearConsultasEnv(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	content := "webhook-url: https://flows.example.test/run?sig=abc\nwebhook-timeout: 5s\nlog-level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadTUIConfig(path)
	if err != nil {
		t.Fatalf("loadTUIConfig returned error: %v", err)
	}
	if cfg.WebhookURL != "https://flows.example.test/run?sig=abc" {
		t.Fatalf("WebhookURL = %q", cfg.WebhookURL)
	}
	if cfg.WebhookTimeout != 5*time.Second {
		t.Fatalf("WebhookTimeout = %s, want 5s", cfg.WebhookTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadTUIConfig_RejectsZeroTimeout(t *testing.T) {
	clearConsultasEnv(t)
	t.Setenv("CONSULTAS_WEBHOOK_TIMEOUT", "0s")

	_, err := loadTUIConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil || !strings.Contains(err.Error(), "invalid webhook-timeout") {
		t.Fatalf("expected invalid webhook-timeout error, got %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	if got := expandHome("~/a/b.yml", "/home/u"); got != filepath.Join("/home/u", "a", "b.yml") {
		t.Fatalf("expandHome = %q", got)
	}
	if got := expandHome("/etc/x.yml", "/home/u"); got != "/etc/x.yml" {
		t.Fatalf("expandHome changed an absolute path: %q", got)
	}
	if got := expandHome("", "/home/u"); got != "" {
		t.Fatalf("expandHome(\"\") = %q", got)
	}
}

func clearConsultasEnv(t *testing.T) {
	t.Helper()

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, "CONSULTAS_") {
			continue
		}
		t.Setenv(key, value)
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}
