package objects

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing file")

type mapLoader struct {
	files map[string]string
	reads []string
}

func (l *mapLoader) DecodeReply(jsonFile string, v any) error {
	l.reads = append(l.reads, jsonFile)
	data, ok := l.files[jsonFile]
	if !ok {
		return fmt.Errorf("%s: %w", jsonFile, errMissing)
	}
	return json.Unmarshal([]byte(data), v)
}

func targetJSON(name string, deps ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"name": %q, "id": %q, "type": "STATIC_LIBRARY", "paths": {"build": ".", "source": "."}`, name, name+"::@1")
	if len(deps) > 0 {
		b.WriteString(`, "dependencies": [`)
		for i, d := range deps {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, `{"id": %q}`, d+"::@1")
		}
		b.WriteString("]")
	}
	b.WriteString(`, "backtraceGraph": {"nodes": [], "commands": [], "files": []}}`)
	return b.String()
}

func dirJSON(build string) string {
	return fmt.Sprintf(`{"paths": {"build": %q, "source": %q}, "installers": [], "backtraceGraph": {"nodes": [], "commands": [], "files": []}}`, build, build)
}

func twoConfigModel() *CodeModel {
	return &CodeModel{
		Kind: KindCodeModel,
		Configurations: []Configuration{
			{
				Name:     "Debug",
				Projects: []Project{{Name: "demo", DirectoryIndexes: []int{0, 1}, TargetIndexes: []int{0, 1}}},
				DirectoryRefs: []DirectoryReference{
					{Source: ".", Build: ".", TargetIndexes: []int{0}, JSONFile: "dir-root-Debug.json"},
					{Source: "lib", Build: "lib", TargetIndexes: []int{1, 7}, JSONFile: "dir-lib-Debug.json"},
				},
				TargetRefs: []TargetReference{
					{Name: "app", ID: "app::@1", JSONFile: "target-app-Debug.json"},
					{Name: "core", ID: "core::@1", DirectoryIndex: 1, JSONFile: "target-core-Debug.json"},
				},
			},
			{
				Name: "Release",
				DirectoryRefs: []DirectoryReference{
					{Source: ".", Build: ".", JSONFile: "dir-root-Release.json"},
				},
				TargetRefs: []TargetReference{
					{Name: "app", ID: "app::@1", JSONFile: "target-app-Release.json"},
				},
			},
		},
	}
}

func twoConfigFiles() map[string]string {
	return map[string]string{
		"target-app-Debug.json":   targetJSON("app", "core"),
		"target-core-Debug.json":  targetJSON("core"),
		"target-app-Release.json": targetJSON("app"),
		"dir-root-Debug.json":     dirJSON("."),
		"dir-lib-Debug.json":      dirJSON("lib"),
		"dir-root-Release.json":   dirJSON("."),
	}
}

func TestResolveReferences(t *testing.T) {
	cm := twoConfigModel()
	l := &mapLoader{files: twoConfigFiles()}

	require.NoError(t, cm.ResolveReferences(l))

	for _, cfg := range cm.Configurations {
		require.Len(t, cfg.Targets, len(cfg.TargetRefs), cfg.Name)
		require.Len(t, cfg.Directories, len(cfg.DirectoryRefs), cfg.Name)
		for i, ref := range cfg.TargetRefs {
			assert.Equal(t, ref.Name, cfg.Targets[i].Name)
		}
		for i, ref := range cfg.DirectoryRefs {
			assert.Equal(t, ref.Build, cfg.Directories[i].Paths.Build)
		}
	}

	assert.Equal(t, []string{
		"target-app-Debug.json", "target-core-Debug.json",
		"dir-root-Debug.json", "dir-lib-Debug.json",
		"target-app-Release.json", "dir-root-Release.json",
	}, l.reads)
}

func TestResolveReferencesFailureLeavesModelUntouched(t *testing.T) {
	files := twoConfigFiles()
	delete(files, "dir-root-Release.json")

	cm := twoConfigModel()
	err := cm.ResolveReferences(&mapLoader{files: files})
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissing)
	assert.Contains(t, err.Error(), `configuration "Release": directory`)

	for _, cfg := range cm.Configurations {
		assert.Nil(t, cfg.Targets, cfg.Name)
		assert.Nil(t, cfg.Directories, cfg.Name)
	}
}

func TestResolveEmptyConfiguration(t *testing.T) {
	cm := &CodeModel{Configurations: []Configuration{{Name: "Empty"}}}
	require.NoError(t, cm.ResolveReferences(&mapLoader{}))
	assert.Empty(t, cm.Configurations[0].Targets)
	assert.NotNil(t, cm.Configurations[0].Targets)
}

func TestConfigurationLookups(t *testing.T) {
	cm := twoConfigModel()
	require.NoError(t, cm.ResolveReferences(&mapLoader{files: twoConfigFiles()}))

	cfg, ok := cm.Configuration("Debug")
	require.True(t, ok)
	_, ok = cm.Configuration("MinSizeRel")
	assert.False(t, ok)

	tgt, ok := cfg.Target(1)
	require.True(t, ok)
	assert.Equal(t, "core", tgt.Name)
	_, ok = cfg.Target(2)
	assert.False(t, ok)
	_, ok = cfg.Target(-1)
	assert.False(t, ok)

	dir, ok := cfg.Directory(1)
	require.True(t, ok)
	assert.Equal(t, "lib", dir.Paths.Build)
	_, ok = cfg.Directory(5)
	assert.False(t, ok)

	tgt, ok = cfg.TargetByID("app::@1")
	require.True(t, ok)
	assert.Equal(t, "app", tgt.Name)
	tgt, ok = cfg.TargetByName("core")
	require.True(t, ok)
	assert.Equal(t, "core::@1", tgt.ID)
	_, ok = cfg.TargetByName("missing")
	assert.False(t, ok)

	names := func(ts []*Target) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Name)
		}
		return out
	}
	assert.Equal(t, []string{"app", "core"}, names(cfg.ProjectTargets(0)))
	assert.Nil(t, cfg.ProjectTargets(3))
	// index 7 is out of range and skipped
	assert.Equal(t, []string{"core"}, names(cfg.DirectoryTargets(1)))
	assert.Nil(t, cfg.DirectoryTargets(9))
}
