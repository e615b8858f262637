// Package index decodes the root index document of a file API reply
// directory.
//
// Fixed-shape parts of the index (tool information and catalog entries)
// reject unknown fields so that schema drift between cmake and this package
// surfaces as an error. The reply map is free-form and decoded by shape.
package index

import (
	"encoding/json"
	"fmt"
	"os"

	"cmakefileapi/internal/jsonutil"
	"cmakefileapi/pkg/errors"
	"cmakefileapi/pkg/objects"
)

type Index struct {
	CMake   CMake                 `json:"cmake"`
	Objects []ReplyFileReference  `json:"objects"`
	Reply   map[string]ReplyField `json:"reply"`
}

// CMake describes the cmake instance that generated the reply.
type CMake struct {
	Version   Version   `json:"version"`
	Paths     Paths     `json:"paths"`
	Generator Generator `json:"generator"`
}

type Version struct {
	Major   int    `json:"major"`
	Minor   int    `json:"minor"`
	Patch   int    `json:"patch"`
	Suffix  string `json:"suffix"`
	String  string `json:"string"`
	IsDirty bool   `json:"isDirty"`
}

type Paths struct {
	CMake string `json:"cmake"`
	CTest string `json:"ctest"`
	CPack string `json:"cpack"`
	Root  string `json:"root"`
}

type Generator struct {
	MultiConfig bool   `json:"multiConfig"`
	Name        string `json:"name"`
	Platform    string `json:"platform,omitempty"`
}

// ReplyFileReference is a catalog entry: one generated object and the file,
// relative to the reply directory, that holds it.
type ReplyFileReference struct {
	Kind     objects.Kind       `json:"kind"`
	Version  objects.MajorMinor `json:"version"`
	JSONFile string             `json:"jsonFile"`
}

// Parse reads and decodes the index file at path.
func Parse(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeIOFailure, "failed to read index"),
			errors.CtxPath, path,
		)
	}

	idx, err := Decode(data)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return idx, nil
}

var (
	indexMembers   = []string{"cmake", "objects", "reply"}
	catalogMembers = []string{"kind", "version", "jsonFile"}
)

// Decode decodes an index document. Missing top-level or catalog members and
// catalog entries naming no file are decode failures.
func Decode(data []byte) (*Index, error) {
	var idx Index
	if err := jsonutil.DecodeStrict(data, &idx); err != nil {
		return nil, errors.Wrap(err, errors.CodeDecodeFailure, "failed to decode index")
	}
	if err := checkRequired(data, &idx); err != nil {
		return nil, errors.Wrap(err, errors.CodeDecodeFailure, "incomplete index")
	}
	return &idx, nil
}

// checkRequired verifies the members encoding/json cannot: presence with the
// exact key case, at the top level and in every catalog entry.
func checkRequired(data []byte, idx *Index) error {
	members, err := jsonutil.RequireMembers(data, indexMembers...)
	if err != nil {
		return err
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(members["objects"], &entries); err != nil {
		return err
	}
	if len(entries) != len(idx.Objects) {
		return fmt.Errorf("objects: %d entries decoded from %d", len(idx.Objects), len(entries))
	}
	for i, entry := range entries {
		if _, err := jsonutil.RequireMembers(entry, catalogMembers...); err != nil {
			return fmt.Errorf("objects[%d]: %w", i, err)
		}
		switch {
		case idx.Objects[i].Kind == "":
			return fmt.Errorf("objects[%d]: empty kind", i)
		case idx.Objects[i].JSONFile == "":
			return fmt.Errorf("objects[%d]: empty jsonFile", i)
		}
	}
	return nil
}

// Find returns the first catalog entry with the given kind and major
// version, in catalog order.
func (idx *Index) Find(kind objects.Kind, major int) (ReplyFileReference, bool) {
	for _, obj := range idx.Objects {
		if obj.Kind == kind && obj.Version.Major == major {
			return obj, true
		}
	}
	return ReplyFileReference{}, false
}

// ClientReplies returns the nested reply map written for a stateful or
// shared-stateless client query. client may be given with or without the
// "client-" prefix.
func (idx *Index) ClientReplies(client string) (map[string]ClientField, bool) {
	field, ok := idx.Reply[ClientKey(client)]
	if !ok || field.Shape() != ShapeClient {
		return nil, false
	}
	return field.Client, true
}
