// Package inmemory provides a process-local memory backend.
//
// Entries live only as long as the Client. It is the default backend for
// tests and for callers that do not need persistence.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nitin-100/rustedclaw-sub001/internal/entryset"
	"github.com/Nitin-100/rustedclaw-sub001/internal/logger"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/idgen"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/ranking"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// Name is the backend identifier.
const Name = "in_memory"

// Client implements storage.Backend with an in-process entry set.
type Client struct {
	mu      sync.RWMutex
	entries *entryset.Set

	ids    idgen.Generator
	rrfK   int
	logger zerolog.Logger
	now    func() time.Time
}

// Config contains configuration for creating an in-memory backend.
type Config struct {
	// IDGenerator assigns IDs to entries stored without one.
	// Defaults to a snowflake generator.
	IDGenerator idgen.Generator

	// Logger receives debug events. Nil disables logging.
	Logger *zerolog.Logger

	// RRFK is the fusion constant for hybrid search. Values <= 0 mean
	// ranking.DefaultRRFK.
	RRFK int
}

// NewClient creates a new in-memory backend.
//
// Parameters:
//   - cfg: Backend configuration; nil uses defaults
//
// Returns the backend instance.
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.Default()
	}
	k := cfg.RRFK
	if k <= 0 {
		k = ranking.DefaultRRFK
	}
	return &Client{
		entries: entryset.New(),
		ids:     ids,
		rrfK:    k,
		logger:  logger.OrNop(cfg.Logger).With().Str("backend", Name).Logger(),
		now:     time.Now,
	}
}

// Name returns "in_memory".
func (c *Client) Name() string {
	return Name
}

// Store inserts or overwrites an entry and returns its ID.
func (c *Client) Store(ctx context.Context, entry *storage.Entry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e := entryset.Prepare(entry, c.ids, c.now())

	c.mu.Lock()
	replaced := c.entries.Upsert(e)
	c.mu.Unlock()

	c.logger.Debug().Str("id", e.ID).Bool("replaced", replaced).Msg("stored entry")
	return e.ID, nil
}

// Search ranks the stored entries for the query and refreshes LastAccessed
// on every returned entry.
func (c *Client) Search(ctx context.Context, query *storage.Query) ([]*storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	results := ranking.Search(c.entries.All(), query, c.rrfK)
	matched := c.entries.Stored(results)
	c.mu.RUnlock()

	if len(results) > 0 {
		now := c.now()
		entryset.Stamp(results, now)
		c.mu.Lock()
		c.entries.Touch(matched, now)
		c.mu.Unlock()
	}
	return results, nil
}

// Delete removes the entry with the given ID.
func (c *Client) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Delete(id), nil
}

// Get returns a copy of the entry with the given ID.
func (c *Client) Get(ctx context.Context, id string) (*storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries.Get(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return e, nil
}

// Count returns the number of stored entries.
func (c *Client) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len(), nil
}

// Clear removes all entries.
func (c *Client) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	c.entries.Clear()
	c.mu.Unlock()
	return nil
}

// Close is a no-op.
func (c *Client) Close() error {
	return nil
}

var _ storage.Backend = (*Client)(nil)
