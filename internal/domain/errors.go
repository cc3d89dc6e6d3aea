package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither .json nor .jsonl.
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .json or .jsonl")
	// ErrParseFailure is returned when neither JSON nor JSONL parsing yields anything.
	ErrParseFailure = errors.New("could not parse file as JSON or JSONL")
	// ErrNoValidEntries is returned when the file parses but holds no usable entry.
	ErrNoValidEntries = errors.New("no valid entries found in file")

	ErrNoMediaFound       = errors.New("no media found to archive")
	ErrAllDownloadsFailed = errors.New("all media downloads failed")

	ErrNotFound        = errors.New("record not found")
	ErrInvalidCategory = errors.New("invalid category")
)

// StorageError wraps a failure reported by the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsImportError reports whether err is one of the user-facing import failures.
func IsImportError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrNoValidEntries)
}
