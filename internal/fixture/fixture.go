// Package fixture installs canned file API reply directories into a build
// tree for tests.
package fixture

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed replies
var replies embed.FS

const (
	// Basic is a single-configuration Ninja build with two targets (app
	// depends on the static library core) in two directories, plus cache,
	// toolchains and cmakeFiles objects.
	Basic = "basic"
	// MissingTarget is Basic without the file of the core target.
	MissingTarget = "missing_target"
)

// Install copies the named reply directory to
// <buildDir>/.cmake/api/v1/reply and returns that path. Index files are
// written last, as cmake does, so a watcher never sees an index whose
// objects are still missing.
func Install(buildDir, name string) (string, error) {
	dst := filepath.Join(buildDir, ".cmake", "api", "v1", "reply")
	if err := os.MkdirAll(dst, 0755); err != nil {
		return "", err
	}

	root := path.Join("replies", name)
	entries, err := fs.ReadDir(replies, root)
	if err != nil {
		return "", err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return !isIndex(entries[i].Name()) && isIndex(entries[j].Name())
	})
	for _, e := range entries {
		data, err := replies.ReadFile(path.Join(root, e.Name()))
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(dst, e.Name()), data, 0644); err != nil {
			return "", err
		}
	}
	return dst, nil
}

func isIndex(name string) bool {
	return strings.HasPrefix(name, "index-")
}

// Read returns the content of one fixture file.
func Read(name, file string) ([]byte, error) {
	return replies.ReadFile(path.Join("replies", name, file))
}
