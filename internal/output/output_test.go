package output

import (
	"strings"
	"testing"

	"cmakefileapi/internal/graph"
	"cmakefileapi/pkg/objects"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	cfg := &objects.Configuration{
		Name: "Debug",
		DirectoryRefs: []objects.DirectoryReference{
			{Build: ".", JSONFile: "d0.json"},
			{Build: "lib", JSONFile: "d1.json"},
		},
		Directories: []objects.Directory{
			{Paths: objects.DirectoryPaths{Build: "."}},
			{Paths: objects.DirectoryPaths{Build: "lib"}},
		},
		TargetRefs: []objects.TargetReference{
			{Name: "app", ID: "app::@0", DirectoryIndex: 0},
			{Name: "modA", ID: "modA::@1", DirectoryIndex: 1},
			{Name: "modB", ID: "modB::@1", DirectoryIndex: 1},
		},
		Targets: []objects.Target{
			{Name: "app", ID: "app::@0", Type: "EXECUTABLE", Dependencies: []objects.Dependency{{ID: "modA::@1"}}},
			{Name: "modA", ID: "modA::@1", Type: "STATIC_LIBRARY", Dependencies: []objects.Dependency{{ID: "modB::@1"}}},
			{Name: "modB", ID: "modB::@1", Type: "STATIC_LIBRARY", Dependencies: []objects.Dependency{{ID: "modA::@1"}}},
		},
	}
	g, err := graph.Build(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDOTGenerator(t *testing.T) {
	g := buildGraph(t)

	dot, err := NewDOTGenerator(g).Generate(g.DetectCycles())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(dot, "digraph targets {") {
		t.Error("DOT output missing digraph header")
	}
	if !strings.Contains(dot, `"app" -> "modA" [color="forestgreen"]`) {
		t.Error("DOT output missing edge app -> modA")
	}
	if !strings.Contains(dot, `"modA" -> "modB" [color="red", penwidth=3.0, label="CYCLE"]`) {
		t.Error("DOT output missing CYCLE edge")
	}
	if !strings.Contains(dot, `label="lib"`) || !strings.Contains(dot, `label="(top level)"`) {
		t.Error("DOT output missing directory clusters")
	}

	again, _ := NewDOTGenerator(g).Generate(g.DetectCycles())
	if again != dot {
		t.Error("DOT output is not deterministic")
	}
}

func TestMermaidGenerator(t *testing.T) {
	g := buildGraph(t)

	gen := NewMermaidGenerator(g)
	gen.SetMetrics(g.ComputeMetrics())
	out, err := gen.Generate(g.DetectCycles())
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"flowchart LR\n",
		"  app --> modA\n",
		"  modA --> modB\n",
		`app["app<br/>executable<br/>(in:0 out:1 depth:1)"]`,
		"  class modA,modB cycle\n",
		"  linkStyle 1,2 stroke:#d00,stroke-width:3px\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Mermaid output missing %q\n%s", want, out)
		}
	}
}

func TestMermaidIDs(t *testing.T) {
	ids := makeMermaidIDs([]string{"my-lib", "my_lib", "3rdparty", ""})
	if ids["my-lib"] != "my_lib" || ids["my_lib"] != "my_lib_2" {
		t.Errorf("unexpected ids for colliding names: %v", ids)
	}
	if ids["3rdparty"] != "t_3rdparty" {
		t.Errorf("expected digit-leading id to be prefixed, got %s", ids["3rdparty"])
	}
	if ids[""] != "t" {
		t.Errorf("expected empty name to map to t, got %s", ids[""])
	}
}

func TestPlantUMLGenerator(t *testing.T) {
	g := buildGraph(t)

	out, err := NewPlantUMLGenerator(g).Generate(g.DetectCycles())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "@startuml\n") || !strings.HasSuffix(out, "@enduml\n") {
		t.Error("PlantUML output missing start/end markers")
	}
	if !strings.Contains(out, "app --> modA\n") {
		t.Error("PlantUML output missing app --> modA")
	}
	if !strings.Contains(out, "modB -[#red,thickness=2]-> modA : CYCLE") {
		t.Errorf("PlantUML output missing cycle edge\n%s", out)
	}
}

func TestTSVGenerator(t *testing.T) {
	g := buildGraph(t)

	tsv, err := NewTSVGenerator(g).Generate()
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(tsv), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines in TSV, got %d", len(lines))
	}
	if lines[1] != "Debug\tapp\tEXECUTABLE\tmodA\tSTATIC_LIBRARY" {
		t.Errorf("Unexpected TSV line: %s", lines[1])
	}
}
