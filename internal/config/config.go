package config

import "time"

type Config struct {
	BuildDir  string    `toml:"build_dir"`
	Query     Query     `toml:"query"`
	Reader    Reader    `toml:"reader"`
	Filter    Filter    `toml:"filter"`
	Watch     Watch     `toml:"watch"`
	Output    Output    `toml:"output"`
	Telemetry Telemetry `toml:"telemetry"`
	History   History   `toml:"history"`
}

// Query controls the query files written before cmake runs. An empty Client
// writes a shared stateless query.
type Query struct {
	Client string   `toml:"client"`
	Kinds  []string `toml:"kinds"`
}

type Reader struct {
	LenientObjects bool `toml:"lenient_objects"`
}

type Filter struct {
	Configurations []string `toml:"configurations"`
	ExcludeTargets []string `toml:"exclude_targets"`
}

type Watch struct {
	Debounce            time.Duration `toml:"debounce"`
	MaxReloadsPerSecond float64       `toml:"max_reloads_per_second"`
}

type Output struct {
	DOT      string `toml:"dot"`
	Mermaid  string `toml:"mermaid"`
	PlantUML string `toml:"plantuml"`
	TSV      string `toml:"tsv"`
}

type Telemetry struct {
	MetricsAddress string `toml:"metrics_address"`
	OTLPEndpoint   string `toml:"otlp_endpoint"`
}

// History enables the sqlite load history when Path is set. Window is the
// span of the moving cycle average in trend reports.
type History struct {
	Path   string        `toml:"path"`
	Window time.Duration `toml:"window"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// WantsConfiguration reports whether the named build configuration passes
// the filter. An empty filter accepts every configuration.
func (c *Config) WantsConfiguration(name string) bool {
	if len(c.Filter.Configurations) == 0 {
		return true
	}
	for _, n := range c.Filter.Configurations {
		if n == name {
			return true
		}
	}
	return false
}
