package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that no entry has the requested ID.
	ErrNotFound = errors.New("memory entry not found")

	// ErrStorage matches every *Error via errors.Is.
	ErrStorage = errors.New("storage operation failed")
)

// Error is a storage failure: I/O on the backing file or (de)serialization.
//
// Example:
//
//	err := &storage.Error{Op: "flush", Path: "/data/memories.jsonl", Err: io.ErrShortWrite}
//	// Error() returns: "storage: flush /data/memories.jsonl: short write"
type Error struct {
	// Op is the name of the operation that failed.
	Op string

	// Path is the file involved, if any.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error returns a formatted error message.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage.
func (e *Error) Is(target error) bool {
	return target == ErrStorage
}
