package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultDebounce            = 500 * time.Millisecond
	defaultMaxReloadsPerSecond = 2.0
	defaultHistoryWindow       = 24 * time.Hour
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := validateQuery(&cfg); err != nil {
		return nil, err
	}
	if err := validateFilter(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}
	if err := validateHistory(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.BuildDir) == "" {
		cfg.BuildDir = "."
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = defaultDebounce
	}
	if cfg.Watch.MaxReloadsPerSecond == 0 {
		cfg.Watch.MaxReloadsPerSecond = defaultMaxReloadsPerSecond
	}
	if cfg.History.Window == 0 {
		cfg.History.Window = defaultHistoryWindow
	}
}

func normalize(cfg *Config) {
	cfg.BuildDir = strings.TrimSpace(cfg.BuildDir)
	cfg.Query.Client = strings.TrimSpace(cfg.Query.Client)
	for i := range cfg.Query.Kinds {
		cfg.Query.Kinds[i] = strings.TrimSpace(cfg.Query.Kinds[i])
	}
	cfg.Telemetry.MetricsAddress = strings.TrimSpace(cfg.Telemetry.MetricsAddress)
	cfg.Telemetry.OTLPEndpoint = strings.TrimSpace(cfg.Telemetry.OTLPEndpoint)
	cfg.History.Path = strings.TrimSpace(cfg.History.Path)
}
