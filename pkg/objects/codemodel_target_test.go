package objects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestCompileGroupFor(t *testing.T) {
	tgt := Target{
		Sources: []Source{
			{Path: "a.cpp", CompileGroupIndex: intPtr(0)},
			{Path: "a.h"},
			{Path: "b.cpp", CompileGroupIndex: intPtr(4)},
		},
		CompileGroups: []CompileGroup{{Language: "CXX"}},
	}

	g, ok := tgt.CompileGroupFor(0)
	require.True(t, ok)
	assert.Equal(t, "CXX", g.Language)

	_, ok = tgt.CompileGroupFor(1)
	assert.False(t, ok, "header has no compile group")
	_, ok = tgt.CompileGroupFor(2)
	assert.False(t, ok, "dangling compile group index")
	_, ok = tgt.CompileGroupFor(3)
	assert.False(t, ok)
}

func TestCompileGroupFlags(t *testing.T) {
	g := CompileGroup{
		CompileCommandFragments: []CompileCommandFragment{
			{Fragment: `-g -DVERSION="1.0 beta" -Wall`},
			{Fragment: "/DWIN32 /O2"},
			{Fragment: `-I"unterminated`},
		},
		Defines: []Define{{Define: "CORE_STATIC"}},
	}

	assert.Equal(t, []string{"-g", "-DVERSION=1.0 beta", "-Wall", "/DWIN32", "/O2"}, g.CompileFragments())
	assert.Equal(t, []string{"CORE_STATIC", "VERSION=1.0 beta", "WIN32"}, g.EffectiveDefines())
	assert.Equal(t, []string{"-g", "-Wall", "/O2"}, g.Flags())
}

func TestCompileGroupSeparatedDefines(t *testing.T) {
	g := CompileGroup{
		CompileCommandFragments: []CompileCommandFragment{
			{Fragment: "-D FOO=1 -O2 /D BAR"},
			{Fragment: "-fPIC -D"},
		},
	}

	assert.Equal(t, []string{"FOO=1", "BAR"}, g.EffectiveDefines())
	assert.Equal(t, []string{"-O2", "-fPIC", "-D"}, g.Flags())
}

func TestInstallPath(t *testing.T) {
	var paths []InstallPath
	require.NoError(t, json.Unmarshal([]byte(`["bin/app", {"from": "docs/a.txt", "to": "A.txt"}]`), &paths))
	require.Len(t, paths, 2)

	assert.False(t, paths[0].IsFromTo())
	assert.Equal(t, "bin/app", paths[0].Path)
	assert.True(t, paths[1].IsFromTo())
	assert.Equal(t, InstallPath{From: "docs/a.txt", To: "A.txt"}, paths[1])

	out, err := json.Marshal(paths)
	require.NoError(t, err)
	assert.JSONEq(t, `["bin/app", {"from": "docs/a.txt", "to": "A.txt"}]`, string(out))

	var bad InstallPath
	assert.Error(t, json.Unmarshal([]byte(`{"from": "a", "to": "b", "mode": 1}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestBacktraceFrames(t *testing.T) {
	g := BacktraceGraph{
		Nodes: []BacktraceNode{
			{File: 0},
			{File: 1, Line: intPtr(3), Command: intPtr(0), Parent: intPtr(0)},
			{File: 1, Line: intPtr(10), Command: intPtr(1), Parent: intPtr(1)},
			{File: 0, Parent: intPtr(3)},
		},
		Commands: []string{"include", "add_library"},
		Files:    []string{"CMakeLists.txt", "cmake/lib.cmake"},
	}

	assert.Equal(t, []Frame{
		{File: "cmake/lib.cmake", Line: 10, Command: "add_library"},
		{File: "cmake/lib.cmake", Line: 3, Command: "include"},
		{File: "CMakeLists.txt"},
	}, g.Frames(2))

	assert.Len(t, g.Frames(3), 1, "self-parent stops after one frame")
	assert.Nil(t, g.Frames(9))
}
