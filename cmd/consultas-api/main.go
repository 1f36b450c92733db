package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tinytelemetry/consultas/internal/model"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

const defaultBindHost = "127.0.0.1"

// appConfig is internal runtime configuration.
type appConfig struct {
	WebhookURL       string        `mapstructure:"webhook-url"`
	WebhookTimeout   time.Duration `mapstructure:"webhook-timeout"`
	AppointmentsFile string        `mapstructure:"appointments-file"`
	Host             string        `mapstructure:"host"`
	APIPort          int           `mapstructure:"api-port"`
	APIAddr          string        `mapstructure:"api-addr"`
	SessionIdleTTL   time.Duration `mapstructure:"session-idle-ttl"`
	LogLevel         string        `mapstructure:"log-level"`
	DevLog           bool          `mapstructure:"dev-log"`
	ConfigPath       string        `mapstructure:"-"` // not from config file
}

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/consultas/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Consultas API - Clinical Visit Log\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := runServer(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

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
	v.SetDefault("host", defaultBindHost)
	v.SetDefault("api-port", model.DefaultAPIPort)
	v.SetDefault("session-idle-ttl", model.DefaultSessionIdleTTL)
	v.SetDefault("log-level", "info")
	v.SetDefault("dev-log", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "consultas", "config.yml"))
	}

	configRead := true
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
		configRead = false
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if configRead {
		cfg.ConfigPath = v.ConfigFileUsed()
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.WebhookTimeout <= 0 {
		return cfg, fmt.Errorf("invalid webhook-timeout: %s", cfg.WebhookTimeout)
	}
	if cfg.SessionIdleTTL < 0 {
		return cfg, fmt.Errorf("invalid session-idle-ttl: %s", cfg.SessionIdleTTL)
	}

	// Expand ~ in appointments-file
	if strings.HasPrefix(cfg.AppointmentsFile, "~/") {
		cfg.AppointmentsFile = filepath.Join(home, cfg.AppointmentsFile[2:])
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
