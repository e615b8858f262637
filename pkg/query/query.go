// Package query writes file API query files that ask cmake to generate
// reply objects on its next run.
package query

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cmakefileapi/internal/jsonutil"
	"cmakefileapi/pkg/errors"
	"cmakefileapi/pkg/index"
	"cmakefileapi/pkg/objects"
)

const statefulFile = "query.json"

// Dir returns the query directory of a build tree.
func Dir(buildDir string) string {
	return filepath.Join(buildDir, ".cmake", "api", "v1", "query")
}

// ClientDir returns the directory owned by client. cmake only reads client
// directories named "client-<name>", so the prefix is added when missing.
func ClientDir(buildDir, client string) string {
	return filepath.Join(Dir(buildDir), index.ClientKey(client))
}

// StatelessFileName returns the marker file name requesting kind at major.
func StatelessFileName(kind objects.Kind, major int) string {
	return fmt.Sprintf("%s-v%d", kind.WireTag(), major)
}

// Query is the content of a stateful query.json file.
type Query struct {
	Requests []Request       `json:"requests"`
	Client   json.RawMessage `json:"client,omitempty"`
}

type Request struct {
	Kind    objects.Kind    `json:"kind"`
	Version OptionalVersion `json:"version"`
}

// OptionalVersion is a major version with an optional minimum minor
// version.
type OptionalVersion struct {
	Major int  `json:"major"`
	Minor *int `json:"minor,omitempty"`
}

// Writer collects object requests and writes them as stateless or stateful
// queries.
type Writer struct {
	requests   []Request
	clientName string
	clientData any
}

func NewWriter() *Writer {
	return &Writer{}
}

// RequestObject asks for kind at the major version this module decodes.
func (w *Writer) RequestObject(kind objects.Kind) *Writer {
	w.requests = append(w.requests, Request{
		Kind:    kind,
		Version: OptionalVersion{Major: kind.RequiredMajor()},
	})
	return w
}

// RequestObjectExact asks for kind with a minimum minor version. The minor
// version only reaches cmake through stateful queries.
func (w *Writer) RequestObjectExact(kind objects.Kind, minor int) *Writer {
	w.requests = append(w.requests, Request{
		Kind:    kind,
		Version: OptionalVersion{Major: kind.RequiredMajor(), Minor: &minor},
	})
	return w
}

// RequestAllObjects requests every registered kind.
func (w *Writer) RequestAllObjects() *Writer {
	for _, k := range objects.Kinds() {
		w.RequestObject(k)
	}
	return w
}

// SetClient names the client for stateful queries. data is echoed back by
// cmake in the reply index and may be nil.
func (w *Writer) SetClient(name string, data any) *Writer {
	w.clientName = name
	w.clientData = data
	return w
}

func (w *Writer) Requests() []Request {
	return append([]Request(nil), w.requests...)
}

// WriteStateless creates one empty marker file per request in the shared
// query directory.
func (w *Writer) WriteStateless(buildDir string) error {
	return w.writeMarkers(Dir(buildDir))
}

// WriteClientStateless creates the marker files inside the client's own
// query directory.
func (w *Writer) WriteClientStateless(buildDir string) error {
	if w.clientName == "" {
		return errors.New(errors.CodeValidationError, "client name not set")
	}
	return w.writeMarkers(ClientDir(buildDir, w.clientName))
}

func (w *Writer) writeMarkers(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeIOFailure, "failed to create query directory"),
			errors.CtxPath, dir,
		)
	}
	for _, req := range w.requests {
		path := filepath.Join(dir, StatelessFileName(req.Kind, req.Version.Major))
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return errors.AddContext(
				errors.Wrap(err, errors.CodeIOFailure, "failed to write query file"),
				errors.CtxPath, path,
			)
		}
	}
	return nil
}

// WriteStateful writes client-<name>/query.json holding every request and
// the client data.
func (w *Writer) WriteStateful(buildDir string) error {
	if w.clientName == "" {
		return errors.New(errors.CodeValidationError, "client name not set")
	}

	q := Query{Requests: w.requests}
	if q.Requests == nil {
		q.Requests = []Request{}
	}
	if w.clientData != nil {
		raw, err := jsonutil.MarshalNoEscape(w.clientData)
		if err != nil {
			return errors.Wrap(err, errors.CodeEncodeFailure, "failed to encode client data")
		}
		q.Client = raw
	}

	data, err := jsonutil.MarshalNoEscape(q)
	if err != nil {
		return errors.Wrap(err, errors.CodeEncodeFailure, "failed to encode query")
	}

	dir := ClientDir(buildDir, w.clientName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeIOFailure, "failed to create client query directory"),
			errors.CtxPath, dir,
		)
	}
	path := filepath.Join(dir, statefulFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeIOFailure, "failed to write query file"),
			errors.CtxPath, path,
		)
	}
	return nil
}

// StatefulPath returns the query.json path of client.
func StatefulPath(buildDir, client string) string {
	return filepath.Join(ClientDir(buildDir, client), statefulFile)
}

// ReadStateful reads back a query.json file.
func ReadStateful(path string) (*Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeIOFailure, "failed to read query file"),
			errors.CtxPath, path,
		)
	}
	var q Query
	if err := jsonutil.DecodeStrict(data, &q); err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeDecodeFailure, "failed to decode query file"),
			errors.CtxPath, path,
		)
	}
	return &q, nil
}
