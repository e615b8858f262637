package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cmakefileapi/pkg/objects"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cmakefileapi.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
build_dir = "out/build"

[query]
client = "cmakefileapi"
kinds = ["codemodel", "cache"]

[reader]
lenient_objects = true

[filter]
configurations = ["Debug"]
exclude_targets = ["*_autogen", "ALL_BUILD"]

[watch]
debounce = "1s"
max_reloads_per_second = 0.5

[output]
dot = "targets.dot"
mermaid = "targets.mmd"
tsv = "targets.tsv"

[telemetry]
metrics_address = "127.0.0.1:9464"

[history]
path = ".cmakefileapi/history.db"
window = "72h"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BuildDir != "out/build" {
		t.Errorf("expected build_dir out/build, got %s", cfg.BuildDir)
	}
	if cfg.Query.Client != "cmakefileapi" {
		t.Errorf("expected client cmakefileapi, got %s", cfg.Query.Client)
	}
	if !cfg.Reader.LenientObjects {
		t.Error("expected lenient objects")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxReloadsPerSecond != 0.5 {
		t.Errorf("expected 0.5 reloads/s, got %v", cfg.Watch.MaxReloadsPerSecond)
	}
	if cfg.Output.Mermaid != "targets.mmd" {
		t.Errorf("expected mermaid targets.mmd, got %s", cfg.Output.Mermaid)
	}
	if cfg.Telemetry.MetricsAddress != "127.0.0.1:9464" {
		t.Errorf("unexpected metrics address %q", cfg.Telemetry.MetricsAddress)
	}

	if cfg.History.Path != ".cmakefileapi/history.db" || cfg.History.Window != 72*time.Hour {
		t.Errorf("unexpected history config %+v", cfg.History)
	}

	kinds := cfg.QueryKinds()
	if len(kinds) != 2 || kinds[0] != objects.KindCodeModel || kinds[1] != objects.KindCache {
		t.Errorf("unexpected query kinds %v", kinds)
	}
	if !cfg.WantsConfiguration("Debug") || cfg.WantsConfiguration("Release") {
		t.Error("configuration filter not applied")
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.BuildDir != "." {
		t.Errorf("expected default build dir '.', got %q", cfg.BuildDir)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxReloadsPerSecond != 2 {
		t.Errorf("expected default 2 reloads/s, got %v", cfg.Watch.MaxReloadsPerSecond)
	}
	if cfg.History.Path != "" || cfg.History.Window != 24*time.Hour {
		t.Errorf("unexpected default history config %+v", cfg.History)
	}
	if got := len(cfg.QueryKinds()); got != len(objects.Kinds()) {
		t.Errorf("expected all %d kinds, got %d", len(objects.Kinds()), got)
	}
	if !cfg.WantsConfiguration("Anything") {
		t.Error("empty filter must accept every configuration")
	}

	def := Default()
	if def.BuildDir != cfg.BuildDir || def.Watch != cfg.Watch {
		t.Errorf("Default() disagrees with Load of an empty file: %+v vs %+v", def, cfg)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown kind",
			content: "[query]\nkinds = [\"codemodel\", \"bogus\"]\n",
			wantErr: `query.kinds[1]: unknown object kind "bogus"`,
		},
		{
			name:    "duplicate kind",
			content: "[query]\nkinds = [\"cache\", \"cache\"]\n",
			wantErr: "duplicate object kind",
		},
		{
			name:    "client with separator",
			content: "[query]\nclient = \"a/b\"\n",
			wantErr: "query.client must not contain path separators",
		},
		{
			name:    "bad glob",
			content: "[filter]\nexclude_targets = [\"[unclosed\"]\n",
			wantErr: "filter.exclude_targets[0]: invalid pattern",
		},
		{
			name:    "negative debounce",
			content: "[watch]\ndebounce = \"-1s\"\n",
			wantErr: "watch.debounce must not be negative",
		},
		{
			name:    "negative history window",
			content: "[history]\nwindow = \"-1h\"\n",
			wantErr: "history.window must not be negative",
		},
		{
			name:    "clashing outputs",
			content: "[output]\ndot = \"graph.out\"\ntsv = \"./graph.out\"\n",
			wantErr: `output.dot and output.tsv both write`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := Load(writeConfig(t, "build_dir = ")); err == nil {
		t.Error("expected toml decode error")
	}
}
