package snapshot

import (
	"errors"
	"fmt"
)

// Kind classifies why a snapshot could not be used
type Kind int

const (
	KindNone Kind = iota
	KindSourceUnavailable
	KindDecode
	KindSchemaMismatch
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSourceUnavailable:
		return "source_unavailable"
	case KindDecode:
		return "decode_error"
	case KindSchemaMismatch:
		return "schema_mismatch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrSourceUnavailable = errors.New("snapshot source unavailable")
	ErrDecode            = errors.New("snapshot decode failed")
	ErrSchemaMismatch    = errors.New("snapshot schema mismatch")
)

// LoadError carries the failure kind of a snapshot load
type LoadError struct {
	Kind Kind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind
func (e *LoadError) Is(target error) bool {
	switch e.Kind {
	case KindSourceUnavailable:
		return target == ErrSourceUnavailable
	case KindDecode:
		return target == ErrDecode
	case KindSchemaMismatch:
		return target == ErrSchemaMismatch
	}
	return false
}

// KindOf extracts the failure kind from err
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindSourceUnavailable
}
