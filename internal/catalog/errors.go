package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when the collection data has no usable header.
	ErrMalformed = errors.New("malformed collection data")
	// ErrUnavailable is returned when the collection data could not be fetched.
	ErrUnavailable = errors.New("collection data unavailable")
)

// DataErrorKind classifies a DataError.
type DataErrorKind string

const (
	KindMalformed   DataErrorKind = "malformed"
	KindUnavailable DataErrorKind = "unavailable"
)

// DataError describes a failure to obtain a usable collection.
type DataError struct {
	Kind DataErrorKind
	Err  error
}

func (e *DataError) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *DataError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *DataError) sentinel() error {
	if e.Kind == KindMalformed {
		return ErrMalformed
	}
	return ErrUnavailable
}

func malformed(format string, args ...any) error {
	return &DataError{Kind: KindMalformed, Err: fmt.Errorf(format, args...)}
}
