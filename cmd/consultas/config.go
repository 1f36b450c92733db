package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/consultas/internal/logging"
	"github.com/tinytelemetry/consultas/internal/model"
)

// tuiConfig holds only TUI-relevant configuration.
type tuiConfig struct {
	WebhookURL       string        `mapstructure:"webhook-url"`
	WebhookTimeout   time.Duration `mapstructure:"webhook-timeout"`
	AppointmentsFile string        `mapstructure:"appointments-file"`
	LogLevel         string        `mapstructure:"log-level"`
	LogFile          string        `mapstructure:"log-file"`
}

func loadTUIConfig(configPath string) (tuiConfig, error) {
	var cfg tuiConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("CONSULTAS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("webhook-url", "")
	v.SetDefault("webhook-timeout", model.DefaultWebhookTimeout)
	v.SetDefault("appointments-file", "")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", logging.DefaultFile("consultas"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "consultas", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if cfg.WebhookTimeout <= 0 {
		return cfg, fmt.Errorf("invalid webhook-timeout: %s", cfg.WebhookTimeout)
	}

	// Expand ~ in file paths
	cfg.AppointmentsFile = expandHome(cfg.AppointmentsFile, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)

	return cfg, nil
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
