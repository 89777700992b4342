// Package apperrors defines the error taxonomy shared by the ingestion and
// query pipelines.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the layer that produced it.
type Kind int

const (
	// KindPath means an input path does not exist.
	KindPath Kind = iota + 1
	// KindIO means a file read or walk failed.
	KindIO
	// KindEmbedding means the embedding backend failed or returned a mismatched count.
	KindEmbedding
	// KindStorage means a schema, constraint or database failure.
	KindStorage
	// KindEncoding means a stored vector could not be decoded.
	KindEncoding
)

var (
	// ErrPath matches errors of KindPath.
	ErrPath = errors.New("path error")
	// ErrIO matches errors of KindIO.
	ErrIO = errors.New("io error")
	// ErrEmbedding matches errors of KindEmbedding.
	ErrEmbedding = errors.New("embedding error")
	// ErrStorage matches errors of KindStorage.
	ErrStorage = errors.New("storage error")
	// ErrEncoding matches errors of KindEncoding.
	ErrEncoding = errors.New("encoding error")
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindIO:
		return "io"
	case KindEmbedding:
		return "embedding"
	case KindStorage:
		return "storage"
	case KindEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindPath:
		return ErrPath
	case KindIO:
		return ErrIO
	case KindEmbedding:
		return ErrEmbedding
	case KindStorage:
		return ErrStorage
	case KindEncoding:
		return ErrEncoding
	default:
		return nil
	}
}

// Error carries the failing operation and its kind.
// errors.Is(err, ErrStorage) and friends match on Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// New returns an *Error of the given kind. A nil err yields an error carrying only op.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Path wraps err as a path failure.
func Path(op string, err error) error { return New(KindPath, op, err) }

// IO wraps err as an I/O failure.
func IO(op string, err error) error { return New(KindIO, op, err) }

// Embedding wraps err as an embedding backend failure.
func Embedding(op string, err error) error { return New(KindEmbedding, op, err) }

// Storage wraps err as a storage failure.
func Storage(op string, err error) error { return New(KindStorage, op, err) }

// Encoding wraps err as a stored-data decoding failure.
func Encoding(op string, err error) error { return New(KindEncoding, op, err) }

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
