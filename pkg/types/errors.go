package types

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInput is returned when a pack is requested with no sources.
	ErrNoInput = errors.New("no input files specified")
	// ErrTargetExists is returned when the target archive already exists and
	// overwrite is disabled. No I/O is performed in that case.
	ErrTargetExists = errors.New("target already exists and overwrite is disabled")
)

// SourceNotFoundError is returned when a source is missing, or when an archive
// to unpack is a directory.
type SourceNotFoundError struct {
	Path string
	Err  error
}

func (e *SourceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %q not found: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("source %q not found", e.Path)
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

// DirectoryCreateError is returned when a destination directory cannot be created.
type DirectoryCreateError struct {
	Path string
	Err  error
}

func (e *DirectoryCreateError) Error() string {
	return fmt.Sprintf("failed to create directory %q: %s", e.Path, e.Err)
}

func (e *DirectoryCreateError) Unwrap() error { return e.Err }

// IOFailureError is returned when reading or writing fails part way through
// an operation.
type IOFailureError struct {
	Path string
	Err  error
}

func (e *IOFailureError) Error() string {
	return fmt.Sprintf("i/o failure on %q: %s", e.Path, e.Err)
}

func (e *IOFailureError) Unwrap() error { return e.Err }
