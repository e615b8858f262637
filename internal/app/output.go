package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cmakefileapi/internal/graph"
	"cmakefileapi/internal/output"
)

// GenerateOutputs writes the configured diagrams for every loaded
// configuration. With more than one configuration the configuration name is
// inserted before the file extension, e.g. targets.Debug.dot.
func (a *App) GenerateOutputs() error {
	graphs := a.Graphs()
	for _, g := range graphs {
		if err := a.generateFor(g, len(graphs) > 1); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) generateFor(g *graph.Graph, suffixed bool) error {
	out := a.Config.Output
	cycles := g.DetectCycles()

	path := func(p string) string {
		if !suffixed {
			return p
		}
		return withConfiguration(p, g.Configuration())
	}

	if out.DOT != "" {
		dot, err := output.NewDOTGenerator(g).Generate(cycles)
		if err != nil {
			return fmt.Errorf("generate DOT output: %w", err)
		}
		if err := writeArtifact(path(out.DOT), dot); err != nil {
			return fmt.Errorf("write DOT output %q: %w", path(out.DOT), err)
		}
	}

	if out.Mermaid != "" {
		gen := output.NewMermaidGenerator(g)
		gen.SetMetrics(g.ComputeMetrics())
		mmd, err := gen.Generate(cycles)
		if err != nil {
			return fmt.Errorf("generate Mermaid output: %w", err)
		}
		if err := writeArtifact(path(out.Mermaid), mmd); err != nil {
			return fmt.Errorf("write Mermaid output %q: %w", path(out.Mermaid), err)
		}
	}

	if out.PlantUML != "" {
		puml, err := output.NewPlantUMLGenerator(g).Generate(cycles)
		if err != nil {
			return fmt.Errorf("generate PlantUML output: %w", err)
		}
		if err := writeArtifact(path(out.PlantUML), puml); err != nil {
			return fmt.Errorf("write PlantUML output %q: %w", path(out.PlantUML), err)
		}
	}

	if out.TSV != "" {
		tsv, err := output.NewTSVGenerator(g).Generate()
		if err != nil {
			return fmt.Errorf("generate TSV output: %w", err)
		}
		if err := writeArtifact(path(out.TSV), tsv); err != nil {
			return fmt.Errorf("write TSV output %q: %w", path(out.TSV), err)
		}
	}
	return nil
}

func withConfiguration(path, configuration string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + configuration + ext
}

func writeArtifact(path, content string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}
