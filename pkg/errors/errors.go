// Package errors defines the closed error taxonomy surfaced by the file API
// loader and query writer.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure. Callers branch on the code, never on the
// message text.
//
// IO_FAILURE covers unreadable files and a reply directory without an index.
// DECODE_FAILURE means a document was read but does not fit its schema.
// PROTOCOL_UNAVAILABLE means cmake has not written a reply directory.
type ErrorCode string

const (
	CodeIOFailure           ErrorCode = "IO_FAILURE"
	CodeDecodeFailure       ErrorCode = "DECODE_FAILURE"
	CodeProtocolUnavailable ErrorCode = "PROTOCOL_UNAVAILABLE"
	CodeObjectNotFound      ErrorCode = "OBJECT_NOT_FOUND"
	CodeEncodeFailure       ErrorCode = "ENCODE_FAILURE"
	CodeValidationError     ErrorCode = "VALIDATION_ERROR"
)

// DomainError carries a code, a short message and the underlying cause.
// Context holds key/value pairs such as the path or kind involved and is
// printed after the message.
type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

// Context keys attached by the loader.
const (
	CtxPath      = "path"
	CtxOperation = "operation"
	CtxKind      = "kind"
)

// WithContext sets key on e and returns e.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New returns a DomainError with no underlying cause.
func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

// Wrap returns a DomainError whose cause is err. errors.Is and errors.As see
// through it to err.
func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// AddContext attaches a key/value pair to err. Errors outside the taxonomy are
// wrapped as IO failures since every foreign error reaching this package
// originates from the filesystem.
func AddContext(err error, key string, value interface{}) error {
	var de *DomainError
	if errors.As(err, &de) {
		de.WithContext(key, value)
		return err
	}
	return &DomainError{
		Code:    CodeIOFailure,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]interface{}{key: value},
	}
}

// IsCode checks if an error has a specific error code.
func IsCode(err error, code ErrorCode) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost DomainError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code, true
	}
	return "", false
}
