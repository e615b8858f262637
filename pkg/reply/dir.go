// Package reply loads typed objects out of a file API reply directory.
package reply

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cmakefileapi/pkg/errors"
)

const (
	apiDir      = ".cmake/api/v1"
	indexPrefix = "index-"
	indexExt    = ".json"
)

// Dir returns the reply directory of a build tree.
func Dir(buildDir string) string {
	return filepath.Join(buildDir, filepath.FromSlash(apiDir), "reply")
}

// IsAvailable reports whether buildDir's reply directory holds an index
// file. The index itself is not decoded.
func IsAvailable(buildDir string) bool {
	_, err := IndexFile(buildDir)
	return err == nil
}

// IndexFile returns the path of the index file in buildDir's reply directory.
//
// When several index files are present the lexicographically greatest name
// wins; cmake names them by timestamp so this is the newest one. A missing
// reply directory is PROTOCOL_UNAVAILABLE. An existing directory without an
// index is an IO_FAILURE wrapping fs.ErrNotExist.
func IndexFile(buildDir string) (string, error) {
	dir := Dir(buildDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.AddContext(
				errors.Wrap(err, errors.CodeProtocolUnavailable, "reply directory does not exist"),
				errors.CtxPath, dir,
			)
		}
		return "", errors.AddContext(
			errors.Wrap(err, errors.CodeIOFailure, "failed to list reply directory"),
			errors.CtxPath, dir,
		)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || !isIndexName(e.Name()) {
			continue
		}
		candidates = append(candidates, e.Name())
	}
	if len(candidates) == 0 {
		return "", errors.AddContext(
			errors.Wrap(fs.ErrNotExist, errors.CodeIOFailure, "no index file in reply directory"),
			errors.CtxPath, dir,
		)
	}

	sort.Strings(candidates)
	return filepath.Join(dir, candidates[len(candidates)-1]), nil
}

func isIndexName(name string) bool {
	if !strings.HasPrefix(name, indexPrefix) || len(name) < len(indexPrefix)+len(indexExt) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(indexExt):], indexExt)
}
