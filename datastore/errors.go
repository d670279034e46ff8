package datastore

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// Kind classifies a decoding or serialization failure, per the error
// taxonomy: structural, schema-binding, type, reference, semantic or
// internal.
type Kind int

const (
	// KindStructural covers missing element namespaces and, in strict
	// mode, unknown elements.
	KindStructural Kind = iota
	// KindSchemaBinding covers elements that match no schema node or
	// that appear in the wrong position.
	KindSchemaBinding
	// KindType covers value text failing its base type constraints.
	KindType
	// KindReference covers leafref/instance-identifier targets that do
	// not exist and are required.
	KindReference
	// KindSemantic covers when/must failures, missing mandatory nodes,
	// duplicate list keys and unique violations.
	KindSemantic
	// KindInternal covers invariant violations.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindSchemaBinding:
		return "schema-binding"
	case KindType:
		return "type"
	case KindReference:
		return "reference"
	case KindSemantic:
		return "semantic"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// DecodeError wraps an error with the Kind of failure it represents, so
// callers that need to distinguish a type violation from a dangling
// reference can do so without string matching.
type DecodeError struct {
	Kind  Kind
	cause error
}

func (e *DecodeError) Error() string { return e.cause.Error() }
func (e *DecodeError) Unwrap() error { return e.cause }

// newError returns a DecodeError of the given Kind, formatted as with
// errors.Errorf.
func newError(k Kind, format string, args ...interface{}) error {
	return &DecodeError{Kind: k, cause: errors.Errorf(format, args...)}
}

// wrapError returns a DecodeError of the given Kind wrapping err.
func wrapError(k Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &DecodeError{Kind: k, cause: errors.Wrap(err, msg)}
}

// KindOf returns the Kind carried by err if it (or something it wraps)
// is a *DecodeError, and false otherwise.
func KindOf(err error) (Kind, bool) {
	var de *DecodeError
	if stderrors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
