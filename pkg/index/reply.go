package index

import (
	"encoding/json"
	"fmt"
	"strings"

	"cmakefileapi/internal/jsonutil"
)

// Shape identifies which variant a reply map value decoded into.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeError
	ShapeReference
	ShapeClient
	ShapeQuery
)

func (s Shape) String() string {
	switch s {
	case ShapeError:
		return "error"
	case ShapeReference:
		return "reference"
	case ShapeClient:
		return "client"
	case ShapeQuery:
		return "query"
	default:
		return "unknown"
	}
}

const clientPrefix = "client-"

// ClientKey returns the reply map key for a client name.
func ClientKey(client string) string {
	if strings.HasPrefix(client, clientPrefix) {
		return client
	}
	return clientPrefix + client
}

// ReplyError is the reply to a query cmake could not satisfy.
type ReplyError struct {
	Error string `json:"error"`
}

// ReplyField is a value of the top-level reply map. Exactly one of Error,
// Reference and Client is set; when none of those shapes matched, Raw holds
// the original JSON.
type ReplyField struct {
	Error     *ReplyError
	Reference *ReplyFileReference
	Client    map[string]ClientField
	Raw       json.RawMessage
}

// ClientField is a value of a client reply map. Exactly one of Error,
// Reference and Query is set; otherwise Raw holds the original JSON.
type ClientField struct {
	Error     *ReplyError
	Reference *ReplyFileReference
	Query     *QueryJSON
	Raw       json.RawMessage
}

// QueryJSON echoes a stateful query.json back to its client. The members are
// client-defined and kept as raw JSON.
type QueryJSON struct {
	Client    json.RawMessage `json:"client,omitempty"`
	Requests  json.RawMessage `json:"requests,omitempty"`
	Responses json.RawMessage `json:"responses,omitempty"`
}

func (f ReplyField) Shape() Shape {
	switch {
	case f.Error != nil:
		return ShapeError
	case f.Reference != nil:
		return ShapeReference
	case f.Client != nil:
		return ShapeClient
	default:
		return ShapeUnknown
	}
}

func (f ClientField) Shape() Shape {
	switch {
	case f.Error != nil:
		return ShapeError
	case f.Reference != nil:
		return ShapeReference
	case f.Query != nil:
		return ShapeQuery
	default:
		return ShapeUnknown
	}
}

// UnmarshalJSON tries the error shape, then the catalog reference shape, then
// a nested client map. A value matching none of them is kept in Raw.
func (f *ReplyField) UnmarshalJSON(data []byte) error {
	*f = ReplyField{}
	if e, ok := sniffError(data); ok {
		f.Error = e
		return nil
	}
	if ref, ok := sniffReference(data); ok {
		f.Reference = ref
		return nil
	}
	var client map[string]ClientField
	if err := json.Unmarshal(data, &client); err == nil && client != nil && clientFieldsKnown(client) {
		f.Client = client
		return nil
	}
	f.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (f ReplyField) MarshalJSON() ([]byte, error) {
	switch f.Shape() {
	case ShapeError:
		return json.Marshal(f.Error)
	case ShapeReference:
		return json.Marshal(f.Reference)
	case ShapeClient:
		return json.Marshal(f.Client)
	}
	if jsonutil.IsNull(f.Raw) {
		return []byte("null"), nil
	}
	return f.Raw, nil
}

// UnmarshalJSON tries the error shape, then the catalog reference shape, then
// the query.json echo shape. A value matching none of them is kept in Raw.
func (f *ClientField) UnmarshalJSON(data []byte) error {
	*f = ClientField{}
	if e, ok := sniffError(data); ok {
		f.Error = e
		return nil
	}
	if ref, ok := sniffReference(data); ok {
		f.Reference = ref
		return nil
	}
	var q QueryJSON
	if isObject(data) && jsonutil.DecodeStrict(data, &q) == nil {
		f.Query = &q
		return nil
	}
	f.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (f ClientField) MarshalJSON() ([]byte, error) {
	switch f.Shape() {
	case ShapeError:
		return json.Marshal(f.Error)
	case ShapeReference:
		return json.Marshal(f.Reference)
	case ShapeQuery:
		return json.Marshal(f.Query)
	}
	if jsonutil.IsNull(f.Raw) {
		return []byte("null"), nil
	}
	return f.Raw, nil
}

// sniffError matches {"error": "<string>"} and nothing else.
func sniffError(data []byte) (*ReplyError, bool) {
	var probe struct {
		Error *string `json:"error"`
	}
	if jsonutil.DecodeStrict(data, &probe) != nil || probe.Error == nil {
		return nil, false
	}
	return &ReplyError{Error: *probe.Error}, true
}

// sniffReference matches a catalog entry with all three members present.
func sniffReference(data []byte) (*ReplyFileReference, bool) {
	var probe struct {
		Kind     *string          `json:"kind"`
		Version  *json.RawMessage `json:"version"`
		JSONFile *string          `json:"jsonFile"`
	}
	if jsonutil.DecodeStrict(data, &probe) != nil {
		return nil, false
	}
	if probe.Kind == nil || probe.Version == nil || probe.JSONFile == nil {
		return nil, false
	}
	var ref ReplyFileReference
	if jsonutil.DecodeStrict(data, &ref) != nil {
		return nil, false
	}
	return &ref, true
}

func clientFieldsKnown(m map[string]ClientField) bool {
	for _, v := range m {
		if v.Shape() == ShapeUnknown {
			return false
		}
	}
	return true
}

func isObject(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

func (e *ReplyError) String() string {
	return fmt.Sprintf("error: %s", e.Error)
}
