package query

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cmakefileapi/pkg/errors"
	"cmakefileapi/pkg/objects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	build := filepath.Join("work", "build")
	assert.Equal(t, filepath.Join(build, ".cmake", "api", "v1", "query"), Dir(build))
	assert.Equal(t, filepath.Join(Dir(build), "client-ide"), ClientDir(build, "ide"))
	assert.Equal(t, filepath.Join(Dir(build), "client-ide"), ClientDir(build, "client-ide"))
	assert.Equal(t, "codemodel-v2", StatelessFileName(objects.KindCodeModel, 2))
	assert.Equal(t, "cmakeFiles-v1", StatelessFileName(objects.KindCMakeFiles, 1))
}

func TestWriteStateless(t *testing.T) {
	build := t.TempDir()

	err := NewWriter().
		RequestObject(objects.KindCodeModel).
		RequestObject(objects.KindCache).
		WriteStateless(build)
	require.NoError(t, err)

	for _, name := range []string{"codemodel-v2", "cache-v2"} {
		data, err := os.ReadFile(filepath.Join(Dir(build), name))
		require.NoError(t, err, name)
		assert.Empty(t, data, name)
	}

	entries, err := os.ReadDir(Dir(build))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWriteStatelessRoundTripAllKinds(t *testing.T) {
	build := t.TempDir()
	w := NewWriter().RequestAllObjects()
	require.NoError(t, w.WriteStateless(build))

	require.Len(t, w.Requests(), len(objects.Kinds()))
	for _, k := range objects.Kinds() {
		info, err := os.Stat(filepath.Join(Dir(build), StatelessFileName(k, k.RequiredMajor())))
		require.NoError(t, err, k.String())
		assert.Zero(t, info.Size())
	}
}

func TestWriteClientStateless(t *testing.T) {
	build := t.TempDir()

	err := NewWriter().RequestObject(objects.KindToolchains).WriteClientStateless(build)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError), "got %v", err)

	err = NewWriter().
		RequestObject(objects.KindToolchains).
		SetClient("ide", nil).
		WriteClientStateless(build)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(build, ".cmake", "api", "v1", "query", "client-ide", "toolchains-v1"))
	assert.NoError(t, err)
}

func TestWriteStateful(t *testing.T) {
	build := t.TempDir()

	data := map[string]any{"session": "a<b>", "depth": 2}
	err := NewWriter().
		RequestObject(objects.KindCodeModel).
		RequestObjectExact(objects.KindCache, 1).
		SetClient("ide", data).
		WriteStateful(build)
	require.NoError(t, err)

	raw, err := os.ReadFile(StatefulPath(build, "ide"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"requests": [
			{"kind": "codemodel", "version": {"major": 2}},
			{"kind": "cache", "version": {"major": 2, "minor": 1}}
		],
		"client": {"session": "a<b>", "depth": 2}
	}`, string(raw))
	assert.Contains(t, string(raw), "a<b>", "client data is written without HTML escaping")

	q, err := ReadStateful(StatefulPath(build, "ide"))
	require.NoError(t, err)
	require.Len(t, q.Requests, 2)
	assert.Equal(t, objects.KindCache, q.Requests[1].Kind)
	require.NotNil(t, q.Requests[1].Version.Minor)
	assert.Equal(t, 1, *q.Requests[1].Version.Minor)
	assert.Nil(t, q.Requests[0].Version.Minor)

	var got map[string]any
	require.NoError(t, json.Unmarshal(q.Client, &got))
	assert.Equal(t, map[string]any{"session": "a<b>", "depth": float64(2)}, got)
}

func TestWriteStatefulWithoutClientData(t *testing.T) {
	build := t.TempDir()

	require.NoError(t, NewWriter().SetClient("client-bare", nil).WriteStateful(build))

	raw, err := os.ReadFile(filepath.Join(Dir(build), "client-bare", "query.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"requests": []}`, string(raw))
}

func TestWriteStatefulErrors(t *testing.T) {
	build := t.TempDir()

	err := NewWriter().RequestObject(objects.KindCodeModel).WriteStateful(build)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError), "got %v", err)

	err = NewWriter().SetClient("ide", func() {}).WriteStateful(build)
	assert.True(t, errors.IsCode(err, errors.CodeEncodeFailure), "got %v", err)
	_, statErr := os.Stat(StatefulPath(build, "ide"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written when encoding fails")
}

func TestReadStatefulErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadStateful(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.IsCode(err, errors.CodeIOFailure), "got %v", err)

	path := filepath.Join(dir, "query.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"requests": [], "extra": 1}`), 0644))
	_, err = ReadStateful(path)
	assert.True(t, errors.IsCode(err, errors.CodeDecodeFailure), "got %v", err)
}
