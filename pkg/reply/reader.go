package reply

import (
	"os"
	"path/filepath"

	"cmakefileapi/internal/jsonutil"
	"cmakefileapi/pkg/errors"
	"cmakefileapi/pkg/index"
	"cmakefileapi/pkg/objects"
)

// Reader gives access to the objects listed in one reply index. It is not
// modified after NewReader returns and may be shared between goroutines, as
// long as cmake does not rewrite the reply directory at the same time.
type Reader struct {
	buildDir  string
	replyDir  string
	indexPath string
	index     *index.Index
	lenient   bool
}

type Option func(*Reader)

// WithLenientObjects accepts unknown fields in object documents. The index
// itself is always decoded strictly.
func WithLenientObjects() Option {
	return func(r *Reader) {
		r.lenient = true
	}
}

// NewReader locates and parses the reply index of buildDir.
func NewReader(buildDir string, opts ...Option) (*Reader, error) {
	path, err := IndexFile(buildDir)
	if err != nil {
		return nil, err
	}
	idx, err := index.Parse(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		buildDir:  buildDir,
		replyDir:  Dir(buildDir),
		indexPath: path,
		index:     idx,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Reader) BuildDir() string { return r.buildDir }
func (r *Reader) ReplyDir() string { return r.replyDir }
func (r *Reader) IndexPath() string { return r.indexPath }
func (r *Reader) Index() *index.Index { return r.index }

// Find returns the first catalog entry for kind with the given major version.
func (r *Reader) Find(kind objects.Kind, major int) (index.ReplyFileReference, bool) {
	return r.index.Find(kind, major)
}

// HasObject reports whether the catalog lists kind at the major version this
// package supports.
func (r *Reader) HasObject(kind objects.Kind) bool {
	if !kind.Registered() {
		return false
	}
	_, ok := r.Find(kind, kind.RequiredMajor())
	return ok
}

// ClientReplies returns the replies cmake wrote for a client query.
func (r *Reader) ClientReplies(client string) (map[string]index.ClientField, bool) {
	return r.index.ClientReplies(client)
}

// DecodeReply decodes the reply file jsonFile, relative to the reply
// directory, into v.
func (r *Reader) DecodeReply(jsonFile string, v any) error {
	path := filepath.Join(r.replyDir, filepath.FromSlash(jsonFile))
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeIOFailure, "failed to read reply file"),
			errors.CtxPath, path,
		)
	}
	if err := jsonutil.Decode(data, v, !r.lenient); err != nil {
		return errors.AddContext(
			errors.Wrap(err, errors.CodeDecodeFailure, "failed to decode reply file"),
			errors.CtxPath, path,
		)
	}
	return nil
}

// ReadObject loads the object of type T listed in r's catalog and resolves
// the files it references. Nothing is returned unless every file decoded.
func ReadObject[T any, PT interface {
	*T
	objects.Object
}](r *Reader) (*T, error) {
	kind := PT(new(T)).ObjectKind()
	ref, ok := r.Find(kind, kind.RequiredMajor())
	if !ok {
		return nil, errors.AddContext(
			errors.New(errors.CodeObjectNotFound, "object not listed in reply index"),
			errors.CtxKind, kind.String(),
		)
	}

	obj := new(T)
	if err := r.DecodeReply(ref.JSONFile, obj); err != nil {
		return nil, errors.AddContext(err, errors.CtxKind, kind.String())
	}
	if res, ok := any(obj).(objects.Resolver); ok {
		if err := res.ResolveReferences(r); err != nil {
			return nil, errors.AddContext(err, errors.CtxKind, kind.String())
		}
	}
	return obj, nil
}

var _ objects.Loader = (*Reader)(nil)
