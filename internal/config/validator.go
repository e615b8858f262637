package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"cmakefileapi/pkg/objects"

	"github.com/gobwas/glob"
)

func validateQuery(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Query.Kinds))
	for i, k := range cfg.Query.Kinds {
		if _, ok := objects.ParseKind(k); !ok {
			return fmt.Errorf("query.kinds[%d]: unknown object kind %q", i, k)
		}
		if seen[k] {
			return fmt.Errorf("query.kinds[%d]: duplicate object kind %q", i, k)
		}
		seen[k] = true
	}
	if strings.ContainsAny(cfg.Query.Client, `/\`) {
		return fmt.Errorf("query.client must not contain path separators, got %q", cfg.Query.Client)
	}
	return nil
}

func validateFilter(cfg *Config) error {
	for i, pattern := range cfg.Filter.ExcludeTargets {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("filter.exclude_targets[%d] must not be empty", i)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("filter.exclude_targets[%d]: invalid pattern %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxReloadsPerSecond < 0 {
		return fmt.Errorf("watch.max_reloads_per_second must not be negative, got %v", cfg.Watch.MaxReloadsPerSecond)
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if cfg.History.Window < 0 {
		return fmt.Errorf("history.window must not be negative, got %s", cfg.History.Window)
	}
	if p := cfg.History.Path; p != "" && strings.HasSuffix(p, string(filepath.Separator)) {
		return fmt.Errorf("history.path must name a file, got %q", p)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	outputs := map[string]string{
		"output.dot":      cfg.Output.DOT,
		"output.mermaid":  cfg.Output.Mermaid,
		"output.plantuml": cfg.Output.PlantUML,
		"output.tsv":      cfg.Output.TSV,
	}
	seen := make(map[string]string, len(outputs))
	for _, key := range []string{"output.dot", "output.mermaid", "output.plantuml", "output.tsv"} {
		path := strings.TrimSpace(outputs[key])
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if other, ok := seen[clean]; ok {
			return fmt.Errorf("%s and %s both write %q", other, key, path)
		}
		seen[clean] = key
	}
	return nil
}

// QueryKinds returns the configured kinds, or every registered kind when
// none are listed.
func (c *Config) QueryKinds() []objects.Kind {
	if len(c.Query.Kinds) == 0 {
		return objects.Kinds()
	}
	kinds := make([]objects.Kind, 0, len(c.Query.Kinds))
	for _, k := range c.Query.Kinds {
		if kind, ok := objects.ParseKind(k); ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
