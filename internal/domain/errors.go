package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrUnknownScript   = errors.New("unknown unicode script")
	ErrNoScripts       = errors.New("at least one unicode script is required")
	ErrEmptyTargetFile = errors.New("target file name is empty")
	ErrInvalidPackFmt  = errors.New("pack format must be a positive integer")
	ErrSameRoots       = errors.New("output root must differ from the source roots")
)

// LoadErrorKind classifies why a translation file could not be loaded.
type LoadErrorKind string

const (
	KindRead   LoadErrorKind = "read"
	KindDecode LoadErrorKind = "decode"
)

// LoadError reports an input file that exists but could not be turned into a
// mapping. Callers degrade it to an empty mapping.
type LoadError struct {
	Path string
	Kind LoadErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// AsLoadError extracts a *LoadError from err, if any.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
