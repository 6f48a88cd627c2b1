// Package noop provides a backend that stores nothing.
//
// It lets callers run with memory disabled without special-casing a nil backend.
package noop

import (
	"context"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// Name is the backend identifier.
const Name = "none"

// Client implements storage.Backend and discards everything.
type Client struct{}

// NewClient creates a no-op backend.
func NewClient() *Client {
	return &Client{}
}

// Name returns "none".
func (*Client) Name() string { return Name }

// Store discards the entry and returns an empty ID.
func (*Client) Store(ctx context.Context, _ *storage.Entry) (string, error) {
	return "", ctx.Err()
}

// Search always returns no results.
func (*Client) Search(ctx context.Context, _ *storage.Query) ([]*storage.Entry, error) {
	return nil, ctx.Err()
}

// Delete always reports that nothing was removed.
func (*Client) Delete(ctx context.Context, _ string) (bool, error) {
	return false, ctx.Err()
}

// Get always returns storage.ErrNotFound.
func (*Client) Get(ctx context.Context, _ string) (*storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, storage.ErrNotFound
}

// Count always returns 0.
func (*Client) Count(ctx context.Context) (int, error) {
	return 0, ctx.Err()
}

// Clear does nothing.
func (*Client) Clear(ctx context.Context) error {
	return ctx.Err()
}

// Close does nothing.
func (*Client) Close() error { return nil }

var _ storage.Backend = (*Client)(nil)
