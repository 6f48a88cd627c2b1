// Package core provides the main memory client: configuration, backend
// selection and the caller-facing Add/Search/Get/Delete surface.
package core

import (
	"errors"
	"fmt"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

var (
	// ErrNotFound is returned (wrapped) when no memory has the requested ID.
	// It is the backend sentinel itself, so errors.Is matches at every layer.
	ErrNotFound = storage.ErrNotFound

	// ErrStorageOperation matches any *storage.Error: failed file reads,
	// rewrites or line encoding.
	ErrStorageOperation = storage.ErrStorage

	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidInput  = errors.New("invalid input")
)

// MemoryError records which client operation failed.
//
//	memory: Add: invalid input
type MemoryError struct {
	Op  string
	Err error
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory: %s: %v", e.Op, e.Err)
}

func (e *MemoryError) Unwrap() error {
	return e.Err
}

// NewMemoryError wraps err with op, passing a nil err through as nil so that
// results can be returned as NewMemoryError("Delete", err) directly.
func NewMemoryError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &MemoryError{Op: op, Err: err}
}
