// Package objects holds the schema registry of file API object kinds and the
// typed documents each kind decodes into.
//
// Every kind is identified by its wire tag (the string used in the index and
// in query file names) and the single major version this package understands.
// Graph-bearing kinds implement Resolver so the reply reader can materialize
// the files they reference.
package objects

import "sort"

// Kind is the wire tag of an object kind, e.g. "codemodel".
type Kind string

const (
	KindCodeModel    Kind = "codemodel"
	KindConfigureLog Kind = "configureLog"
	KindCache        Kind = "cache"
	KindCMakeFiles   Kind = "cmakeFiles"
	KindToolchains   Kind = "toolchains"
)

type kindInfo struct {
	major int
	order int
}

var registry = map[Kind]kindInfo{
	KindCodeModel:    {major: 2, order: 0},
	KindConfigureLog: {major: 1, order: 1},
	KindCache:        {major: 2, order: 2},
	KindToolchains:   {major: 1, order: 3},
	KindCMakeFiles:   {major: 1, order: 4},
}

// WireTag returns the string used for k on disk and in the index.
func (k Kind) WireTag() string {
	return string(k)
}

// RequiredMajor returns the major version supported for k, or 0 when k is
// not a registered kind.
func (k Kind) RequiredMajor() int {
	return registry[k].major
}

// Registered reports whether k is one of the kinds this package can decode.
func (k Kind) Registered() bool {
	_, ok := registry[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind maps a wire tag to a registered kind.
func ParseKind(tag string) (Kind, bool) {
	k := Kind(tag)
	if !k.Registered() {
		return "", false
	}
	return k, true
}

// Kinds returns every registered kind in a stable order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		return registry[kinds[i]].order < registry[kinds[j]].order
	})
	return kinds
}

// MajorMinor is the version pair carried by catalog entries and documents.
type MajorMinor struct {
	Major int `json:"major"`
	Minor int `json:"minor"`
}

// Object is implemented by the top-level document type of every kind.
type Object interface {
	ObjectKind() Kind
}

// Loader decodes a reply file, named relative to the reply directory, into v.
type Loader interface {
	DecodeReply(jsonFile string, v any) error
}

// Resolver is implemented by documents that reference other reply files.
// ResolveReferences populates the derived fields that are absent from the
// wire format. It must leave the receiver unchanged when it fails.
type Resolver interface {
	ResolveReferences(l Loader) error
}

// resolveAll decodes the file of every reference, in order, into a new slice
// whose i-th element corresponds to refs[i]. Decoded values that are
// themselves Resolvers are resolved before being appended.
func resolveAll[R any, T any](l Loader, refs []R, jsonFile func(R) string) ([]T, error) {
	out := make([]T, 0, len(refs))
	for _, ref := range refs {
		var v T
		if err := l.DecodeReply(jsonFile(ref), &v); err != nil {
			return nil, err
		}
		if r, ok := any(&v).(Resolver); ok {
			if err := r.ResolveReferences(l); err != nil {
				return nil, err
			}
		}
		out = append(out, v)
	}
	return out, nil
}
