package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrTrailingData is returned when a document holds more than one JSON value.
	ErrTrailingData = errors.New("unexpected data after top-level JSON value")

	// ErrNullDocument is returned when the top-level value is the literal null.
	ErrNullDocument = errors.New("top-level JSON value is null")

	// ErrMissingMember is wrapped by RequireMembers errors.
	ErrMissingMember = errors.New("missing required member")
)

// Requirer is implemented by document types whose listed members must be
// present, spelled exactly, and not null.
type Requirer interface {
	RequiredMembers() []string
}

// Validator is implemented by decoded values that check their own
// invariants once every field is set.
type Validator interface {
	Validate() error
}

// Decode reads exactly one JSON value from data into v. With strict set,
// object keys that do not map to a struct field are rejected; the error text
// names the offending key.
//
// A top-level null is rejected. When v is a Requirer its members are checked
// against data with exact key case, and when v is a Validator it is validated
// after decoding.
func Decode(data []byte, v any, strict bool) error {
	if IsNull(data) {
		return ErrNullDocument
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return ErrTrailingData
	}
	if r, ok := v.(Requirer); ok {
		if _, err := RequireMembers(data, r.RequiredMembers()...); err != nil {
			return err
		}
	}
	if val, ok := v.(Validator); ok {
		return val.Validate()
	}
	return nil
}

// RequireMembers checks that data is a JSON object carrying every named
// member with a non-null value. Keys are compared case-sensitively, unlike
// encoding/json field matching. The object's members are returned.
func RequireMembers(data []byte, names ...string) (map[string]json.RawMessage, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	if members == nil {
		return nil, ErrNullDocument
	}
	for _, name := range names {
		raw, ok := members[name]
		if !ok || IsNull(raw) {
			return nil, fmt.Errorf("%w %q", ErrMissingMember, name)
		}
	}
	return members, nil
}

// DecodeStrict is Decode with unknown-field rejection.
func DecodeStrict(data []byte, v any) error {
	return Decode(data, v, true)
}

// MarshalNoEscape encodes v into JSON without escaping <, >, & into <, etc.
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Remove trailing newline from json.Encoder.Encode
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// IsNull reports whether raw is absent or the JSON literal null.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
